package trace

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Scope indicates the granularity level of an event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeSession covers request-level session loop events.
	ScopeSession Scope = iota + 1
	// ScopeDriver covers compiler driver phases.
	ScopeDriver
	// ScopeFile covers per-file processing.
	ScopeFile
	// ScopeNode covers AST node level events.
	ScopeNode
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeSession:
		return "session"
	case ScopeDriver:
		return "driver"
	case ScopeFile:
		return "file"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time   time.Time
	Seq    uint64
	Scope  Scope
	Name   string // e.g. "run-command", "parse"
	Detail string
}

var seq atomic.Uint64

// NextSeq returns the next global sequence number.
func NextSeq() uint64 {
	return seq.Add(1)
}

// NewPoint builds an instant event with a formatted detail message.
func NewPoint(scope Scope, name, format string, args ...any) *Event {
	return &Event{
		Time:   time.Now(),
		Scope:  scope,
		Name:   name,
		Detail: fmt.Sprintf(format, args...),
	}
}
