package interact

import (
	"errors"
	"io"

	"reforge/internal/command"
	"reforge/internal/driver"
	"reforge/internal/trace"
)

// Config describes an interactive run.
type Config struct {
	Backend      string   // backend name; empty means plain
	CompilerArgs []string // files handed to every compiler invocation
	Registry     *command.Registry
	In           io.Reader
	Out          io.Writer
	Tracer       trace.Tracer
	Driver       *driver.Options
}

// Interact runs an interactive session over cfg's transport until the
// client closes it. The wiring: a reader goroutine decodes requests into
// the worker's inbox, the worker routes them to the session loop and
// services live file reads, the session loop handles one request at a
// time on the calling goroutine, and a writer goroutine encodes replies.
func Interact(cfg Config) error {
	backend, err := NewBackend(cfg.Backend, cfg.In, cfg.Out)
	if err != nil {
		return err
	}
	registry := cfg.Registry
	if registry == nil {
		registry = command.DefaultRegistry()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}

	toWorker := make(chan ToWorker, 16)
	toServer := make(chan ToServer)
	toClient := make(chan ToClient, 16)

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		RunWorker(toWorker, toClient, toServer)
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range toClient {
			if err := backend.WriteReply(msg); err != nil {
				// Replies after a write failure are undeliverable, but the
				// channel must keep draining so no sender blocks.
				trace.Infof(tracer, trace.ScopeSession, "write", "reply dropped: %v", err)
			}
		}
	}()

	go func() {
		send := NewWrapSender(toWorker, func(m ToServer) ToWorker {
			return InputMessage{Msg: m}
		})
		for {
			msg, err := backend.ReadRequest()
			if err != nil {
				if errors.Is(err, errBadRequest) {
					// Route the failure through the session so the Error
					// reply lands in request order.
					send.Send(badRequest{Text: err.Error()})
					continue
				}
				if !errors.Is(err, io.EOF) {
					trace.Infof(tracer, trace.ScopeSession, "read", "transport failed: %v", err)
				}
				break
			}
			send.Send(msg)
		}
		toWorker <- Shutdown{}
	}()

	trace.Infof(tracer, trace.ScopeSession, "start", "backend=%s files=%d",
		cfg.Backend, len(cfg.CompilerArgs))

	sess := newSession(cfg.CompilerArgs, registry, toWorker, toClient, workerDone, tracer, cfg.Driver)
	sess.runLoop(toServer)

	<-workerDone
	close(toClient)
	<-writerDone
	return nil
}
