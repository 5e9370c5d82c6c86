package interact

import (
	"slices"

	"reforge/internal/ast"
	"reforge/internal/command"
	"reforge/internal/driver"
	"reforge/internal/source"
)

// markRegistry holds the session's current marks. It is owned by the
// session loop; compiler invocations only ever see clones.
type markRegistry struct {
	set      command.MarkSet
	interner *source.Interner
}

func newMarkRegistry() *markRegistry {
	return &markRegistry{
		set:      make(command.MarkSet),
		interner: source.NewInterner(),
	}
}

// add inserts (id, label). Duplicate insertions collapse.
func (r *markRegistry) add(id ast.NodeID, label string) {
	r.set[command.Mark{Node: id, Label: r.interner.Intern(label)}] = struct{}{}
}

// removeAll deletes every mark on the node.
func (r *markRegistry) removeAll(id ast.NodeID) {
	for m := range r.set {
		if m.Node == id {
			delete(r.set, m)
		}
	}
}

// labelsFor returns the node's labels, sorted lexicographically.
func (r *markRegistry) labelsFor(id ast.NodeID) []string {
	labels := make([]string, 0, 4)
	for m := range r.set {
		if m.Node == id {
			labels = append(labels, r.interner.MustLookup(m.Label))
		}
	}
	slices.Sort(labels)
	return labels
}

// clone returns an independent snapshot for a compiler invocation.
func (r *markRegistry) clone() command.MarkSet {
	return r.set.Clone()
}

// replace swaps in the mark set produced by a command.
func (r *markRegistry) replace(set command.MarkSet) {
	r.set = set
}

// collectMarkInfos materializes one MarkInfo per distinct marked node,
// sorted by id, labels sorted within each. Span resolution needs the live
// compiler context, which is why infos are always recomputed here.
func (r *markRegistry) collectMarkInfos(prog *ast.Program, cx *driver.Ctxt) []MarkInfo {
	byID := make(map[ast.NodeID][]string, len(r.set))
	for m := range r.set {
		byID[m.Node] = append(byID[m.Node], r.interner.MustLookup(m.Label))
	}

	ids := make([]ast.NodeID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	infos := make([]MarkInfo, 0, len(ids))
	for _, id := range ids {
		labels := byID[id]
		slices.Sort(labels)
		infos = append(infos, markInfo(prog, cx, id, labels))
	}
	return infos
}

// markInfo builds the client-facing view of one node with the given labels.
func markInfo(prog *ast.Program, cx *driver.Ctxt, id ast.NodeID, labels []string) MarkInfo {
	path, start, end := cx.SpanInfo(prog, id)
	return MarkInfo{
		ID:        uint32(id),
		File:      path,
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    end.Col,
		Labels:    labels,
	}
}
