package interact

import (
	"errors"
	"fmt"
	"io"
)

// errBadRequest tags decode failures that leave the transport readable.
// Errors without this tag are transport failures and end the session.
var errBadRequest = errors.New("bad request")

func badRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errBadRequest}, args...)...)
}

// Backend encodes and decodes one side of the editor transport. Decoding
// runs on the reader goroutine and encoding on the writer goroutine, never
// concurrently with themselves, so implementations need no locking.
type Backend interface {
	// ReadRequest decodes the next request from the transport. io.EOF
	// reports a clean close; any other error is a malformed request and
	// leaves the transport readable.
	ReadRequest() (ToServer, error)

	// WriteReply encodes one reply and flushes it.
	WriteReply(ToClient) error
}

// NewBackend selects a backend implementation by name. The empty name
// selects plain.
func NewBackend(name string, in io.Reader, out io.Writer) (Backend, error) {
	switch name {
	case "", "plain":
		return NewPlainBackend(in, out), nil
	case "json":
		return NewJSONBackend(in, out), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (expected: plain|json)", name)
	}
}
