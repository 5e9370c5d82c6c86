package sema

import (
	"fmt"

	"reforge/internal/ast"
	"reforge/internal/diag"
)

// Check runs post-resolution checks. Currently: call arity against the
// resolved function definition.
func Check(prog *ast.Program, res *Result, bag *diag.Bag) {
	prog.WalkAll(func(n *ast.Node) bool {
		if n.Kind != ast.KindCall || len(n.Children) == 0 {
			return true
		}
		callee := n.Children[0]
		def, ok := res.Defs[callee]
		if !ok {
			return true
		}
		fn := prog.Get(def)
		if fn.Kind != ast.KindFn {
			return true
		}
		params := 0
		for _, c := range fn.Children {
			if prog.Get(c).Kind == ast.KindParam {
				params++
			}
		}
		args := len(n.Children) - 1
		if args != params {
			bag.Add(diag.Diagnostic{
				Span:     n.Span,
				Severity: diag.SevError,
				Message: fmt.Sprintf("call to %q with %d arguments, expected %d",
					fn.Name, args, params),
			})
		}
		return true
	})
}
