package command

import (
	"fmt"

	"reforge/internal/ast"
	"reforge/internal/driver"
)

// DefaultRegistry returns a registry with the built-in commands.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("rename_item", func(args []string) Command {
		if len(args) != 2 {
			panic(fmt.Sprintf("rename_item: expected 2 arguments, got %d", len(args)))
		}
		return &renameItem{old: args[0], new: args[1]}
	})
	r.Register("delete_item", func(args []string) Command {
		if len(args) != 0 {
			panic(fmt.Sprintf("delete_item: expected no arguments, got %d", len(args)))
		}
		return deleteItem{}
	})
	r.Register("mark_uses", func(args []string) Command {
		if len(args) != 1 {
			panic(fmt.Sprintf("mark_uses: expected 1 argument, got %d", len(args)))
		}
		return &markUses{label: args[0]}
	})
	r.Register("clear_marks", func(args []string) Command {
		if len(args) != 0 {
			panic(fmt.Sprintf("clear_marks: expected no arguments, got %d", len(args)))
		}
		return clearMarks{}
	})
	r.Register("noop", func(args []string) Command {
		return noop{}
	})
	return r
}

// renameItem renames a function definition and every resolved use of it.
type renameItem struct {
	old, new string
}

func (*renameItem) MinPhase() driver.Phase { return driver.PhaseResolve }

func (c *renameItem) Run(st *State, cx *driver.Ctxt) {
	prog := st.Program()

	var def ast.NodeID
	prog.WalkAll(func(n *ast.Node) bool {
		if n.Kind == ast.KindFn && n.Name == c.old {
			def = n.ID
			return false
		}
		return true
	})
	if def == ast.NoNode {
		panic(fmt.Sprintf("no item named %q", c.old))
	}

	renamed := map[ast.NodeID]struct{}{def: {}}
	prog.Get(def).Name = c.new
	for _, use := range cx.Sema.UsesOf(def) {
		prog.Get(use).Name = c.new
		renamed[use] = struct{}{}
	}
	st.NoteProgramChanged()

	// Marks on a renamed node keep their ids but now describe different
	// text, so the client needs a refreshed listing.
	for m := range st.Marks() {
		if _, ok := renamed[m.Node]; ok {
			st.NoteMarksChanged()
			break
		}
	}
}

// deleteItem removes every item carrying the "target" label, along with the
// marks on the removed subtrees.
type deleteItem struct{}

func (deleteItem) MinPhase() driver.Phase { return driver.PhaseResolve }

func (deleteItem) Run(st *State, cx *driver.Ctxt) {
	prog := st.Program()
	target := st.Interner().Intern("target")

	doomed := make(map[ast.NodeID]struct{})
	for m := range st.Marks() {
		if m.Label != target {
			continue
		}
		if prog.Has(m.Node) && prog.Get(m.Node).Kind.IsItem() {
			doomed[m.Node] = struct{}{}
		}
	}
	if len(doomed) == 0 {
		return
	}

	// Every node inside a deleted subtree loses its marks too.
	gone := make(map[ast.NodeID]struct{})
	for item := range doomed {
		prog.Walk(item, func(n *ast.Node) bool {
			gone[n.ID] = struct{}{}
			return true
		})
		prog.Detach(item)
	}
	st.NoteProgramChanged()

	for m := range st.Marks() {
		if _, ok := gone[m.Node]; ok {
			delete(st.Marks(), m)
			st.NoteMarksChanged()
		}
	}
}

// markUses adds the given label to every resolved use of each node already
// carrying that label.
type markUses struct {
	label string
}

func (*markUses) MinPhase() driver.Phase { return driver.PhaseResolve }

func (c *markUses) Run(st *State, cx *driver.Ctxt) {
	label := st.Interner().Intern(c.label)

	var defs []ast.NodeID
	for m := range st.Marks() {
		if m.Label == label {
			defs = append(defs, m.Node)
		}
	}
	for _, def := range defs {
		for _, use := range cx.Sema.UsesOf(def) {
			st.Marks()[Mark{Node: use, Label: label}] = struct{}{}
			st.NoteMarksChanged()
		}
	}
}

// clearMarks empties the mark set.
type clearMarks struct{}

func (clearMarks) MinPhase() driver.Phase { return driver.PhaseParse }

func (clearMarks) Run(st *State, cx *driver.Ctxt) {
	st.SetMarks(make(MarkSet))
}

// noop runs the compiler and changes nothing. Useful for probing that a
// workspace still builds.
type noop struct{}

func (noop) MinPhase() driver.Phase { return driver.PhaseTypecheck }

func (noop) Run(st *State, cx *driver.Ctxt) {}
