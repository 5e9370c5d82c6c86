// Package spanfix normalizes spans after parsing. Nodes the parser had to
// synthesize carry empty spans; they inherit the covering extent of their
// children so that position lookup and rewrite diffs stay stable.
package spanfix

import (
	"reforge/internal/ast"
	"reforge/internal/driver"
	"reforge/internal/source"
)

// FixSpans normalizes every span in prog, in place, and returns prog.
func FixSpans(cx *driver.Ctxt, prog *ast.Program) *ast.Program {
	for _, root := range prog.Roots {
		fix(prog, root)
	}
	return prog
}

func fix(prog *ast.Program, id ast.NodeID) source.Span {
	n := prog.Get(id)
	var cover source.Span
	first := true
	for _, c := range n.Children {
		cs := fix(prog, c)
		if cs.Empty() {
			continue
		}
		if first {
			cover = cs
			first = false
		} else {
			cover = cover.Cover(cs)
		}
	}
	if n.Span.Empty() && !first {
		n.Span = cover
	}
	return n.Span
}
