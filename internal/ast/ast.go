// Package ast defines the arena-backed syntax tree for the reforge frontend.
//
// Node IDs are dense indices into one arena per build. They are stable only
// within a single compiler invocation over one buffer state; a re-parse
// assigns fresh IDs.
package ast

import (
	"fmt"
	"slices"

	"reforge/internal/source"
)

// NodeID identifies a node inside one Program arena.
type NodeID uint32

// NoNode is the invalid node ID.
const NoNode NodeID = 0

// NodeKind classifies a node.
type NodeKind uint8

const (
	KindFile NodeKind = iota + 1
	KindFn
	KindParam
	KindBlock
	KindLet
	KindReturn
	KindExprStmt
	KindCall
	KindBinary
	KindIdent
	KindLit
)

// String returns the string representation of NodeKind.
func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFn:
		return "fn"
	case KindParam:
		return "param"
	case KindBlock:
		return "block"
	case KindLet:
		return "let"
	case KindReturn:
		return "return"
	case KindExprStmt:
		return "expr-stmt"
	case KindCall:
		return "call"
	case KindBinary:
		return "binary"
	case KindIdent:
		return "ident"
	case KindLit:
		return "lit"
	default:
		return "unknown"
	}
}

// IsItem reports whether the kind is a top-level item.
func (k NodeKind) IsItem() bool {
	return k == KindFn
}

// IsStmt reports whether the kind is a statement.
func (k NodeKind) IsStmt() bool {
	return k == KindLet || k == KindReturn || k == KindExprStmt
}

// IsExpr reports whether the kind is an expression.
func (k NodeKind) IsExpr() bool {
	return k == KindCall || k == KindBinary || k == KindIdent || k == KindLit
}

// Node is one syntax node. Name carries the identifier payload for
// Fn/Param/Let/Ident nodes; Text carries raw literal text for Lit and the
// operator for Binary.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Span     source.Span
	Parent   NodeID
	Children []NodeID
	Name     string
	Text     string
}

// Program is a forest of file roots sharing one node arena.
type Program struct {
	nodes []Node // nodes[0] is a zero sentinel for NoNode
	Roots []NodeID
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{
		nodes: make([]Node, 1),
	}
}

// New allocates a node and returns its ID.
func (p *Program) New(kind NodeKind, span source.Span) NodeID {
	id := NodeID(len(p.nodes))
	p.nodes = append(p.nodes, Node{ID: id, Kind: kind, Span: span})
	return id
}

// Get returns the node for an ID, panicking on invalid IDs. Stale IDs from
// an earlier parse are a caller error surfaced through the panic.
func (p *Program) Get(id NodeID) *Node {
	if !p.Has(id) {
		panic(fmt.Sprintf("no node with ID %d", id))
	}
	return &p.nodes[id]
}

// Has reports whether the ID refers to a node in this program.
func (p *Program) Has(id NodeID) bool {
	return id != NoNode && int(id) < len(p.nodes)
}

// Len returns the number of allocated nodes, not counting the sentinel.
func (p *Program) Len() int {
	return len(p.nodes) - 1
}

// AppendChild links child under parent, at the end of its child list.
func (p *Program) AppendChild(parent, child NodeID) {
	p.Get(child).Parent = parent
	n := p.Get(parent)
	n.Children = append(n.Children, child)
}

// AddRoot registers a file root.
func (p *Program) AddRoot(id NodeID) {
	p.Roots = append(p.Roots, id)
}

// Detach removes child from its parent's child list. The node stays in the
// arena; it just becomes unreachable from the roots.
func (p *Program) Detach(child NodeID) {
	n := p.Get(child)
	if n.Parent == NoNode {
		p.Roots = slices.DeleteFunc(p.Roots, func(r NodeID) bool { return r == child })
		return
	}
	parent := p.Get(n.Parent)
	parent.Children = slices.DeleteFunc(parent.Children, func(c NodeID) bool { return c == child })
	n.Parent = NoNode
}

// Clone deep-copies the program. Node IDs are preserved.
func (p *Program) Clone() *Program {
	out := &Program{
		nodes: make([]Node, len(p.nodes)),
		Roots: slices.Clone(p.Roots),
	}
	copy(out.nodes, p.nodes)
	for i := range out.nodes {
		out.nodes[i].Children = slices.Clone(p.nodes[i].Children)
	}
	return out
}

// Walk visits the subtree under id in pre-order. Returning false from fn
// skips the node's children.
func (p *Program) Walk(id NodeID, fn func(*Node) bool) {
	n := p.Get(id)
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		p.Walk(c, fn)
	}
}

// WalkAll visits every reachable node across all file roots in pre-order.
func (p *Program) WalkAll(fn func(*Node) bool) {
	for _, root := range p.Roots {
		p.Walk(root, fn)
	}
}

// FileOf returns the file root containing id.
func (p *Program) FileOf(id NodeID) NodeID {
	n := p.Get(id)
	for n.Parent != NoNode {
		n = p.Get(n.Parent)
	}
	return n.ID
}
