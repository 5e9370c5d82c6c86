// Package pick maps editor positions to syntax nodes.
package pick

import (
	"fmt"
	"strings"

	"reforge/internal/ast"
	"reforge/internal/driver"
	"reforge/internal/source"
)

// Kind is the node-kind vocabulary an editor can ask for.
type Kind uint8

const (
	KindAny Kind = iota + 1
	KindItem
	KindStmt
	KindExpr
	KindIdent
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindItem:
		return "item"
	case KindStmt:
		return "stmt"
	case KindExpr:
		return "expr"
	case KindIdent:
		return "ident"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a Kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "any":
		return KindAny, nil
	case "item":
		return KindItem, nil
	case "stmt":
		return KindStmt, nil
	case "expr":
		return KindExpr, nil
	case "ident":
		return KindIdent, nil
	default:
		return 0, fmt.Errorf("invalid node kind: %q (expected: any|item|stmt|expr|ident)", s)
	}
}

func (k Kind) matches(nk ast.NodeKind) bool {
	switch k {
	case KindAny:
		return nk != ast.KindFile
	case KindItem:
		return nk.IsItem()
	case KindStmt:
		return nk.IsStmt()
	case KindExpr:
		return nk.IsExpr()
	case KindIdent:
		return nk == ast.KindIdent
	default:
		return false
	}
}

// Info describes a picked node.
type Info struct {
	ID   ast.NodeID
	Span source.Span
}

// NodeAt returns the innermost node of the requested kind covering the
// 1-based line/column position in the named file.
func NodeAt(prog *ast.Program, cx *driver.Ctxt, kind Kind, file string, line, col uint32) (Info, bool) {
	f, ok := cx.FileSet.GetByPath(file)
	if !ok {
		return Info{}, false
	}
	off, ok := f.Offset(source.LineCol{Line: line, Col: col})
	if !ok {
		return Info{}, false
	}

	var best *ast.Node
	for _, root := range prog.Roots {
		if prog.Get(root).Span.File != f.ID {
			continue
		}
		prog.Walk(root, func(n *ast.Node) bool {
			// Children of a non-covering node cannot cover the offset.
			if !n.Span.Contains(off) {
				return false
			}
			if kind.matches(n.Kind) {
				// Pre-order puts children after parents, so a later match
				// with an equal-or-smaller span is the innermost one.
				if best == nil || n.Span.Len() <= best.Span.Len() {
					best = n
				}
			}
			return true
		})
	}
	if best == nil {
		return Info{}, false
	}
	return Info{ID: best.ID, Span: best.Span}, true
}
