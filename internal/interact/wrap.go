package interact

// WrapSender is a send-only view of a channel of U, presented as accepting
// T values. Each send applies a pure wrapping function, so a producer can
// post into a channel typed for a larger message enum without knowing its
// full shape.
type WrapSender[T, U any] struct {
	ch   chan<- U
	wrap func(T) U
}

// NewWrapSender builds a WrapSender from a channel and a wrapping function.
func NewWrapSender[T, U any](ch chan<- U, wrap func(T) U) WrapSender[T, U] {
	return WrapSender[T, U]{ch: ch, wrap: wrap}
}

// Send wraps v and posts it, blocking like a plain channel send.
func (w WrapSender[T, U]) Send(v T) {
	w.ch <- w.wrap(v)
}
