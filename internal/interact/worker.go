package interact

// ToWorker is a message for the worker thread.
type ToWorker interface{ isToWorker() }

// InputMessage is a request decoded from the transport.
type InputMessage struct {
	Msg ToServer
}

// NeedFile asks the worker to fetch the live content of a buffered file.
// The worker answers the one-shot responder exactly once; a responder that
// is instead closed tells the blocked reader the transport is gone.
type NeedFile struct {
	Path  string
	Reply chan<- string
}

// Shutdown tells the worker the transport has closed.
type Shutdown struct{}

func (InputMessage) isToWorker() {}
func (NeedFile) isToWorker()     {}
func (Shutdown) isToWorker()     {}

// RunWorker bridges the transport and the session loop. Inbound requests
// are forwarded to the session; NeedFile requests are serviced by querying
// the client and routing the matching BufferText answer back to the
// responder, which is why BufferText never reaches the session loop.
//
// Forwarding to the session goes through an ordered outbox so the worker
// never blocks on a busy session. That keeps it free to service NeedFile
// while the session loop is inside a compiler run, even when the client
// has pipelined further requests.
//
// The worker owns the sending side of toServer and closes it only after the
// outbox is empty: requests the client pipelined before closing its end are
// still answered, in order. Shutdown closes outstanding responders first so
// a blocked reader observes a failure instead of hanging, which also lets
// the session finish its current request and keep draining.
func RunWorker(recv <-chan ToWorker, toClient chan<- ToClient, toServer chan<- ToServer) {
	pending := make(map[string][]chan<- string)
	var outbox []ToServer
	draining := false

	defer close(toServer)

	for {
		if draining && len(outbox) == 0 {
			return
		}

		// Only offer the head of the outbox when there is one; a nil
		// channel arm never fires.
		var sendCh chan<- ToServer
		var head ToServer
		if len(outbox) > 0 {
			sendCh = toServer
			head = outbox[0]
		}

		select {
		case msg := <-recv:
			switch m := msg.(type) {
			case InputMessage:
				if bt, ok := m.Msg.(BufferText); ok {
					if q := pending[bt.File]; len(q) > 0 {
						if len(q) == 1 {
							delete(pending, bt.File)
						} else {
							pending[bt.File] = q[1:]
						}
						q[0] <- bt.Content
						continue
					}
					// Unsolicited buffer text is a routing defect; let the
					// session loop's boundary report it.
				}
				outbox = append(outbox, m.Msg)

			case NeedFile:
				if draining {
					// Transport is gone; fail the read right away.
					close(m.Reply)
					continue
				}
				pending[m.Path] = append(pending[m.Path], m.Reply)
				toClient <- GetBufferText{File: m.Path}

			case Shutdown:
				for _, q := range pending {
					for _, ch := range q {
						close(ch)
					}
				}
				clear(pending)
				draining = true
			}

		case sendCh <- head:
			outbox = outbox[1:]
		}
	}
}
