// Package command defines the transformation command registry and the
// execution state commands operate on.
package command

import (
	"fmt"

	"reforge/internal/ast"
	"reforge/internal/driver"
	"reforge/internal/source"
)

// Mark tags one syntax node with an interned label.
type Mark struct {
	Node  ast.NodeID
	Label source.StringID
}

// MarkSet is the set of current marks. Duplicate (node, label) pairs
// collapse; distinct labels on one node coexist.
type MarkSet map[Mark]struct{}

// Clone returns an independent copy of the set.
func (s MarkSet) Clone() MarkSet {
	out := make(MarkSet, len(s))
	for m := range s {
		out[m] = struct{}{}
	}
	return out
}

// Command is a named transformation over the program.
type Command interface {
	// MinPhase is the minimum compiler phase the command needs.
	MinPhase() driver.Phase

	// Run executes the command against the state. Faults are raised as
	// panics and handled by the session's per-request boundary.
	Run(st *State, cx *driver.Ctxt)
}

// Builder constructs a command from its string arguments. Malformed
// arguments panic with a descriptive string.
type Builder func(args []string) Command

// Registry resolves command names to builders.
type Registry struct {
	cmds map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Builder)}
}

// Register adds a command builder under name.
func (r *Registry) Register(name string, b Builder) {
	r.cmds[name] = b
}

// Get builds the named command with args. Unknown names and malformed
// arguments panic; the session loop converts that into an Error reply.
func (r *Registry) Get(name string, args []string) Command {
	b, ok := r.cmds[name]
	if !ok {
		panic(fmt.Sprintf("unknown command %q", name))
	}
	return b(args)
}

// State is the mutable context one command execution sees. It owns cloned
// snapshots of the program and mark set, so a command can never race the
// session's own copies.
type State struct {
	prog     *ast.Program
	marks    MarkSet
	interner *source.Interner

	progChanged  bool
	marksChanged bool
}

// NewState clones prog and marks into a fresh execution state.
func NewState(prog *ast.Program, marks MarkSet, interner *source.Interner) *State {
	return &State{
		prog:     prog.Clone(),
		marks:    marks.Clone(),
		interner: interner,
	}
}

// Program returns the working program. Commands that mutate it must call
// NoteProgramChanged.
func (st *State) Program() *ast.Program {
	return st.prog
}

// Marks returns the working mark set. Commands that mutate it must call
// NoteMarksChanged.
func (st *State) Marks() MarkSet {
	return st.marks
}

// Interner returns the session's label interner.
func (st *State) Interner() *source.Interner {
	return st.interner
}

// NoteProgramChanged records that the program was mutated.
func (st *State) NoteProgramChanged() {
	st.progChanged = true
}

// NoteMarksChanged records that the mark set was mutated.
func (st *State) NoteMarksChanged() {
	st.marksChanged = true
}

// SetMarks replaces the working mark set wholesale.
func (st *State) SetMarks(marks MarkSet) {
	st.marks = marks
	st.marksChanged = true
}

// ProgramChanged reports whether the command mutated the program.
func (st *State) ProgramChanged() bool {
	return st.progChanged
}

// MarksChanged reports whether the command mutated the mark set.
func (st *State) MarksChanged() bool {
	return st.marksChanged
}
