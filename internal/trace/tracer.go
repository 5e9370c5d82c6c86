// Package trace provides leveled event tracing for the session server and
// the compiler driver.
package trace

// Tracer is the main interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev *Event)

	// Flush ensures all buffered events are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// Infof emits a point event in the given scope if the tracer accepts it.
func Infof(t Tracer, scope Scope, name, format string, args ...any) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(NewPoint(scope, name, format, args...))
}
