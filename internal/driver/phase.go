package driver

import "fmt"

// Phase is a stopping point in the compiler pipeline. Commands declare the
// minimum phase they need before they can run.
type Phase uint8

const (
	// PhaseParse stops after building the syntax tree.
	PhaseParse Phase = iota + 1
	// PhaseResolve additionally binds names to definitions.
	PhaseResolve
	// PhaseTypecheck additionally runs post-resolution checks.
	PhaseTypecheck
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseResolve:
		return "resolve"
	case PhaseTypecheck:
		return "typecheck"
	default:
		return "unknown"
	}
}

// ParsePhase converts a string to a Phase.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "parse":
		return PhaseParse, nil
	case "resolve":
		return PhaseResolve, nil
	case "typecheck":
		return PhaseTypecheck, nil
	default:
		return 0, fmt.Errorf("invalid phase: %q (expected: parse|resolve|typecheck)", s)
	}
}
