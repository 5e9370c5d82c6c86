package interact

import (
	"fmt"
	"path/filepath"

	"reforge/internal/driver"
)

// InteractiveLoader redirects reads of buffered files to the editor through
// the worker; everything else falls through to disk. Existence and path
// resolution always consult the real filesystem, buffer availability
// affects content only.
type InteractiveLoader struct {
	buffers  map[string]struct{} // canonical paths
	toWorker chan<- ToWorker
	done     <-chan struct{} // closed when the worker exits
	real     driver.RealFileLoader
}

// NewInteractiveLoader builds a loader over a snapshot of the canonical
// buffer set. done must be closed when the worker exits, so that reads
// in flight fail instead of hanging.
func NewInteractiveLoader(buffers map[string]struct{}, toWorker chan<- ToWorker, done <-chan struct{}) *InteractiveLoader {
	return &InteractiveLoader{buffers: buffers, toWorker: toWorker, done: done}
}

func (l *InteractiveLoader) FileExists(path string) bool {
	return l.real.FileExists(path)
}

func (l *InteractiveLoader) AbsPath(path string) (string, error) {
	return l.real.AbsPath(path)
}

// ReadFile returns the live buffer content for buffered files, blocking the
// calling compiler thread until the editor answers. There is no timeout: a
// client that never responds stalls the compiler run indefinitely, which is
// a documented limitation of the protocol.
func (l *InteractiveLoader) ReadFile(path string) (string, error) {
	canon, err := canonicalize(path)
	if err != nil {
		return "", err
	}
	if _, ok := l.buffers[canon]; !ok {
		return l.real.ReadFile(canon)
	}

	reply := make(chan string, 1)
	select {
	case l.toWorker <- NeedFile{Path: canon, Reply: reply}:
	case <-l.done:
		return "", fmt.Errorf("buffer request for %s failed: transport closed", canon)
	}

	var content string
	var answered bool
	select {
	case content, answered = <-reply:
	case <-l.done:
		// The worker may have answered just before exiting.
		select {
		case content, answered = <-reply:
		default:
		}
	}
	if !answered {
		return "", fmt.Errorf("buffer request for %s failed: transport closed", canon)
	}
	return content, nil
}

// canonicalize resolves a path to its absolute, symlink-free form. It fails
// for paths that do not exist.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
