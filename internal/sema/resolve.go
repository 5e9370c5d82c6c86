// Package sema implements name resolution and the checks the driver runs
// after parsing.
package sema

import (
	"fmt"
	"slices"

	"reforge/internal/ast"
	"reforge/internal/diag"
)

// Result holds the outcome of resolution: every use ident mapped to its
// defining node (Fn, Param or Let).
type Result struct {
	Defs map[ast.NodeID]ast.NodeID
}

// UsesOf returns every use ident resolving to def, in arena order.
func (r *Result) UsesOf(def ast.NodeID) []ast.NodeID {
	out := make([]ast.NodeID, 0, 4)
	for use, d := range r.Defs {
		if d == def {
			out = append(out, use)
		}
	}
	slices.Sort(out)
	return out
}

type resolver struct {
	prog *ast.Program
	bag  *diag.Bag
	fns  map[string]ast.NodeID
	defs map[ast.NodeID]ast.NodeID
}

// Resolve binds every ident use in prog to a definition. Functions live in
// one global scope across all files; params and lets are lexical within
// their function, with shadowing.
func Resolve(prog *ast.Program, bag *diag.Bag) *Result {
	r := &resolver{
		prog: prog,
		bag:  bag,
		fns:  make(map[string]ast.NodeID),
		defs: make(map[ast.NodeID]ast.NodeID),
	}

	// First pass: collect function names so forward and cross-file calls
	// resolve.
	prog.WalkAll(func(n *ast.Node) bool {
		if n.Kind != ast.KindFn {
			return true
		}
		if prev, ok := r.fns[n.Name]; ok {
			r.bag.Add(diag.Diagnostic{
				Span:     n.Span,
				Severity: diag.SevError,
				Message:  fmt.Sprintf("duplicate function %q (previous at node %d)", n.Name, prev),
			})
			return false
		}
		r.fns[n.Name] = n.ID
		return false
	})

	for _, root := range prog.Roots {
		for _, item := range prog.Get(root).Children {
			if prog.Get(item).Kind == ast.KindFn {
				r.resolveFn(item)
			}
		}
	}
	return &Result{Defs: r.defs}
}

// scope is a linked stack of local bindings.
type scope struct {
	parent *scope
	names  map[string]ast.NodeID
}

func (s *scope) lookup(name string) (ast.NodeID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.names[name]; ok {
			return id, true
		}
	}
	return ast.NoNode, false
}

func (r *resolver) resolveFn(fn ast.NodeID) {
	top := &scope{names: make(map[string]ast.NodeID)}
	n := r.prog.Get(fn)
	var block ast.NodeID
	for _, c := range n.Children {
		child := r.prog.Get(c)
		switch child.Kind {
		case ast.KindParam:
			top.names[child.Name] = c
		case ast.KindBlock:
			block = c
		}
	}
	if block != ast.NoNode {
		r.resolveBlock(block, top)
	}
}

func (r *resolver) resolveBlock(block ast.NodeID, parent *scope) {
	sc := &scope{parent: parent, names: make(map[string]ast.NodeID)}
	for _, c := range r.prog.Get(block).Children {
		stmt := r.prog.Get(c)
		switch stmt.Kind {
		case ast.KindLet:
			for _, e := range stmt.Children {
				r.resolveExpr(e, sc)
			}
			// The binding is visible only after its initializer.
			sc.names[stmt.Name] = c
		default:
			for _, e := range stmt.Children {
				r.resolveExpr(e, sc)
			}
		}
	}
}

func (r *resolver) resolveExpr(expr ast.NodeID, sc *scope) {
	n := r.prog.Get(expr)
	if n.Kind == ast.KindIdent {
		if def, ok := sc.lookup(n.Name); ok {
			r.defs[expr] = def
			return
		}
		if def, ok := r.fns[n.Name]; ok {
			r.defs[expr] = def
			return
		}
		r.bag.Add(diag.Diagnostic{
			Span:     n.Span,
			Severity: diag.SevError,
			Message:  fmt.Sprintf("unresolved name %q", n.Name),
		})
		return
	}
	for _, c := range n.Children {
		r.resolveExpr(c, sc)
	}
}
