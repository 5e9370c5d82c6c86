// Package diag holds diagnostics produced by the frontend passes.
package diag

import (
	"reforge/internal/source"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	SevInfo Severity = iota + 1
	SevWarning
	SevError
)

// String returns the string representation of Severity.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one message attached to a source span.
type Diagnostic struct {
	Span     source.Span
	Severity Severity
	Message  string
}
