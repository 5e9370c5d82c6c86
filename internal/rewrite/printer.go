// Package rewrite regenerates file text from the syntax tree and diffs two
// program snapshots into per-file rewrites.
package rewrite

import (
	"strings"

	"reforge/internal/ast"
)

const indent = "    "

// PrintFile regenerates the canonical text of one file root.
func PrintFile(prog *ast.Program, root ast.NodeID) string {
	var b strings.Builder
	items := prog.Get(root).Children
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		printItem(&b, prog, item)
	}
	return b.String()
}

func printItem(b *strings.Builder, prog *ast.Program, id ast.NodeID) {
	n := prog.Get(id)
	switch n.Kind {
	case ast.KindFn:
		b.WriteString("fn ")
		b.WriteString(n.Name)
		b.WriteString("(")
		first := true
		var block ast.NodeID
		for _, c := range n.Children {
			child := prog.Get(c)
			switch child.Kind {
			case ast.KindParam:
				if !first {
					b.WriteString(", ")
				}
				b.WriteString(child.Name)
				first = false
			case ast.KindBlock:
				block = c
			}
		}
		b.WriteString(") {\n")
		if block != ast.NoNode {
			for _, stmt := range prog.Get(block).Children {
				printStmt(b, prog, stmt)
			}
		}
		b.WriteString("}\n")
	}
}

func printStmt(b *strings.Builder, prog *ast.Program, id ast.NodeID) {
	n := prog.Get(id)
	b.WriteString(indent)
	switch n.Kind {
	case ast.KindLet:
		b.WriteString("let ")
		b.WriteString(n.Name)
		b.WriteString(" = ")
		if len(n.Children) > 0 {
			printExpr(b, prog, n.Children[0])
		}
	case ast.KindReturn:
		b.WriteString("return")
		if len(n.Children) > 0 {
			b.WriteString(" ")
			printExpr(b, prog, n.Children[0])
		}
	case ast.KindExprStmt:
		if len(n.Children) > 0 {
			printExpr(b, prog, n.Children[0])
		}
	}
	b.WriteString(";\n")
}

func printExpr(b *strings.Builder, prog *ast.Program, id ast.NodeID) {
	n := prog.Get(id)
	switch n.Kind {
	case ast.KindIdent:
		b.WriteString(n.Name)
	case ast.KindLit:
		b.WriteString(n.Text)
	case ast.KindBinary:
		printExpr(b, prog, n.Children[0])
		b.WriteString(" ")
		b.WriteString(n.Text)
		b.WriteString(" ")
		printExpr(b, prog, n.Children[1])
	case ast.KindCall:
		printExpr(b, prog, n.Children[0])
		b.WriteString("(")
		for i, arg := range n.Children[1:] {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, prog, arg)
		}
		b.WriteString(")")
	}
}
