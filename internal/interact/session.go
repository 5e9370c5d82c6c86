package interact

import (
	"fmt"

	"reforge/internal/ast"
	"reforge/internal/command"
	"reforge/internal/driver"
	"reforge/internal/pick"
	"reforge/internal/rewrite"
	"reforge/internal/spanfix"
	"reforge/internal/trace"
)

// session is the single-threaded heart of an interactive run. It owns the
// mark registry and the buffer-availability set; only the loop goroutine
// ever touches them.
type session struct {
	compilerArgs []string
	registry     *command.Registry
	marks        *markRegistry
	buffers      map[string]struct{} // canonical paths of live editor buffers
	toWorker     chan<- ToWorker
	toClient     chan<- ToClient
	workerDone   <-chan struct{}
	tracer       trace.Tracer
	driverOpts   *driver.Options
}

func newSession(
	compilerArgs []string,
	registry *command.Registry,
	toWorker chan<- ToWorker,
	toClient chan<- ToClient,
	workerDone <-chan struct{},
	tracer trace.Tracer,
	driverOpts *driver.Options,
) *session {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &session{
		compilerArgs: compilerArgs,
		registry:     registry,
		marks:        newMarkRegistry(),
		buffers:      make(map[string]struct{}),
		toWorker:     toWorker,
		toClient:     toClient,
		workerDone:   workerDone,
		tracer:       tracer,
		driverOpts:   driverOpts,
	}
}

// runLoop serves requests until toServer closes, which the worker does when
// the transport is gone. Requests are strictly sequential: each one is
// fully handled, replies included, before the next is received.
func (s *session) runLoop(toServer <-chan ToServer) {
	for msg := range toServer {
		s.handleSafe(msg)
	}
	trace.Infof(s.tracer, trace.ScopeSession, "loop", "request channel closed, session over")
}

// handleSafe is the per-request fault boundary. A panic anywhere in request
// handling becomes an Error reply; the loop then moves on with the session
// state exactly as it was before the failing request.
func (s *session) handleSafe(msg ToServer) {
	defer func() {
		if r := recover(); r != nil {
			text := faultText(r)
			trace.Infof(s.tracer, trace.ScopeSession, "fault", "%s", text)
			s.toClient <- Error{Text: text}
		}
	}()
	s.handleOne(msg)
}

// faultText renders a recovered panic value for the client.
func faultText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	default:
		return "an error of unknown type occurred"
	}
}

func (s *session) handleOne(msg ToServer) {
	switch m := msg.(type) {
	case AddMark:
		s.handleAddMark(m)

	case RemoveMark:
		s.marks.removeAll(ast.NodeID(m.ID))

	case GetMarkInfo:
		s.handleGetMarkInfo(m)

	case GetMarkList:
		s.runCompiler(driver.PhaseParse, func(prog *ast.Program, cx *driver.Ctxt) error {
			prog = spanfix.FixSpans(cx, prog)
			s.toClient <- MarkList{Infos: s.marks.collectMarkInfos(prog, cx)}
			return nil
		})

	case SetBuffersAvailable:
		next := make(map[string]struct{}, len(m.Files))
		for _, f := range m.Files {
			canon, err := canonicalize(f)
			if err != nil {
				// A path the filesystem cannot resolve cannot match a
				// canonical read path either; drop it.
				continue
			}
			next[canon] = struct{}{}
		}
		s.buffers = next

	case RunCommand:
		s.handleRunCommand(m)

	case badRequest:
		panic(m.Text)

	case BufferText:
		panic(fmt.Sprintf("buffer text for %s reached the session loop; it must be routed by the worker", m.File))

	default:
		panic(fmt.Sprintf("unrecognized message type %T", msg))
	}
}

func (s *session) handleAddMark(m AddMark) {
	kind, err := pick.ParseKind(m.Kind)
	if err != nil {
		panic(err)
	}

	s.runCompiler(driver.PhaseResolve, func(prog *ast.Program, cx *driver.Ctxt) error {
		prog = spanfix.FixSpans(cx, prog)
		info, ok := pick.NodeAt(prog, cx, kind, m.File, m.Line, m.Col)
		if !ok {
			panic(fmt.Sprintf("no %s node at %s:%d:%d", kind, m.File, m.Line, m.Col))
		}
		s.marks.add(info.ID, m.Label)
		// The reply carries only the label just added, not the node's full
		// label set.
		s.toClient <- Mark{Info: markInfo(prog, cx, info.ID, []string{m.Label})}
		return nil
	})
}

func (s *session) handleGetMarkInfo(m GetMarkInfo) {
	id := ast.NodeID(m.ID)
	// A node with no marks left still answers, with an empty label list.
	// Span resolution faults on ids the current program does not contain,
	// and the request boundary turns that into an Error reply.
	labels := s.marks.labelsFor(id)

	s.runCompiler(driver.PhaseParse, func(prog *ast.Program, cx *driver.Ctxt) error {
		prog = spanfix.FixSpans(cx, prog)
		s.toClient <- Mark{Info: markInfo(prog, cx, id, labels)}
		return nil
	})
}

// handleRunCommand executes a registered command against cloned state and
// publishes its effects: regenerated text for every changed real file, then
// the fresh mark list if the mark set changed.
func (s *session) handleRunCommand(m RunCommand) {
	cmd := s.registry.Get(m.Name, m.Args)
	trace.Infof(s.tracer, trace.ScopeSession, "command", "%s phase=%s", m.Name, cmd.MinPhase())

	s.runCompiler(cmd.MinPhase(), func(prog *ast.Program, cx *driver.Ctxt) error {
		prog = spanfix.FixSpans(cx, prog)
		st := command.NewState(prog, s.marks.clone(), s.marks.interner)
		cmd.Run(st, cx)

		if st.ProgramChanged() {
			rws := rewrite.Rewrite(cx, prog, st.Program())
			rewrite.ApplyWith(rws, func(file, text string) {
				s.toClient <- NewBufferText{File: file, Content: text}
			})
		}
		if st.MarksChanged() {
			s.marks.replace(st.Marks())
			s.toClient <- MarkList{Infos: s.marks.collectMarkInfos(st.Program(), cx)}
		}
		return nil
	})
}

// runCompiler invokes the driver with the session's live file loader and
// panics on failure, deferring error reporting to the request boundary.
func (s *session) runCompiler(phase driver.Phase, fn driver.RunFunc) {
	loader := NewInteractiveLoader(s.buffers, s.toWorker, s.workerDone)
	if err := driver.RunCompilerWithOptions(s.driverOpts, s.compilerArgs, loader, phase, fn); err != nil {
		panic(err)
	}
}
