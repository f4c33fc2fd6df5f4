// Package ast is the tree model over parsed Solidity source: an arena
// of [Node] values addressed by integer [NodeID] rather than pointers,
// so rules can hold node ids across Context calls without fighting the
// garbage collector or aliasing rules.
package ast

import "github.com/wharflab/solidguard/internal/diag"

// Tree is the parsed representation of one source file. A Tree is built
// once by a parser adapter and is immutable afterward; rules only read it.
type Tree struct {
	Source []byte
	nodes  []Node
	root   NodeID
}

// NewTree builds an empty tree over source, ready for Builder to populate.
func NewTree(source []byte) *Tree {
	return &Tree{Source: source, nodes: nil, root: NoNode}
}

// Root returns the id of the SourceUnit node, or NoNode if the tree is empty.
func (t *Tree) Root() NodeID { return t.root }

// SetRoot records which node id is the SourceUnit. Called once by the
// parser adapter after the first AddNode call.
func (t *Tree) SetRoot(id NodeID) { t.root = id }

// AddNode appends a new node to the arena and returns its id. parent is
// NoNode for the root; otherwise the new id is appended to parent's
// Children in call order, which is also source (child-index) order.
func (t *Tree) AddNode(n Node, parent NodeID) NodeID {
	id := NodeID(len(t.nodes))
	n.ID = id
	n.Parent = parent
	t.nodes = append(t.nodes, n)
	if parent != NoNode {
		p := t.nodes[parent]
		p.Children = append(p.Children, id)
		t.nodes[parent] = p
	}
	return id
}

// Node returns the node for id. Panics on an out-of-range id: a bad id is
// an adapter bug, not a user-facing error, so it fails loudly like a slice
// index would.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Replace overwrites the stored node at id, preserving its ID/Parent/
// Children so a builder can fill in fields (like Range, once an
// expression's full span is known) discovered after AddNode ran.
func (t *Tree) Replace(id NodeID, n Node) {
	n.ID = id
	n.Parent = t.nodes[id].Parent
	n.Children = t.nodes[id].Children
	t.nodes[id] = n
}

// Reparent moves id from its current parent's Children to newParent's,
// appending it at the end. Builders use this when a node is constructed
// before its final parent is known — expression operands are parsed
// before the operator node that owns them exists yet.
func (t *Tree) Reparent(id, newParent NodeID) {
	old := t.nodes[id].Parent
	if old != NoNode {
		siblings := t.nodes[old].Children
		for i, c := range siblings {
			if c == id {
				t.nodes[old].Children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	t.nodes[id].Parent = newParent
	t.nodes[newParent].Children = append(t.nodes[newParent].Children, id)
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Text byte-slices Source for r, clamping to the slice bounds so a
// slightly-off range from a tolerant parse never panics.
func (t *Tree) Text(r diag.Range) string {
	start, end := r.Start.Offset, r.End.Offset
	if start < 0 {
		start = 0
	}
	if end > len(t.Source) {
		end = len(t.Source)
	}
	if start > end {
		return ""
	}
	return string(t.Source[start:end])
}

// FindChildren returns the direct children of id whose Kind equals kind,
// in source order.
func (t *Tree) FindChildren(id NodeID, kind Kind) []NodeID {
	var out []NodeID
	for _, c := range t.nodes[id].Children {
		if t.nodes[c].Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Ancestors walks Parent links from id up to and including the root,
// returning them nearest-first. The root's own ancestor list is empty.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	cur := t.nodes[id].Parent
	for cur != NoNode {
		out = append(out, cur)
		cur = t.nodes[cur].Parent
	}
	return out
}

// Visitor receives pre-order Enter and post-order Leave calls from Visit.
type Visitor interface {
	Enter(t *Tree, id NodeID)
	Leave(t *Tree, id NodeID)
}

// VisitorFuncs adapts two plain functions into a Visitor, for rules that
// only care about one of Enter/Leave.
type VisitorFuncs struct {
	EnterFunc func(t *Tree, id NodeID)
	LeaveFunc func(t *Tree, id NodeID)
}

func (f VisitorFuncs) Enter(t *Tree, id NodeID) {
	if f.EnterFunc != nil {
		f.EnterFunc(t, id)
	}
}

func (f VisitorFuncs) Leave(t *Tree, id NodeID) {
	if f.LeaveFunc != nil {
		f.LeaveFunc(t, id)
	}
}

// Visit walks every node reachable from Root in source (child-index)
// order, calling v.Enter before descending into children and v.Leave
// after. This is the single traversal the driver (C6) uses to fan out to
// every registered visitor rule at once, rather than one traversal per
// rule.
func (t *Tree) Visit(v Visitor) {
	if t.root == NoNode {
		return
	}
	t.visit(t.root, v)
}

func (t *Tree) visit(id NodeID, v Visitor) {
	v.Enter(t, id)
	for _, c := range t.nodes[id].Children {
		t.visit(c, v)
	}
	v.Leave(t, id)
}

// VisitUntil behaves like Visit but checks stop before entering each
// node; once stop reports true, the walk returns immediately without
// visiting that node or any of its remaining siblings or descendants.
// The driver (C6) uses this to honor context cancellation mid-traversal
// without threading a context.Context through the tree package itself.
func (t *Tree) VisitUntil(v Visitor, stop func() bool) {
	if t.root == NoNode {
		return
	}
	t.visitUntil(t.root, v, stop)
}

func (t *Tree) visitUntil(id NodeID, v Visitor, stop func() bool) bool {
	if stop() {
		return true
	}
	v.Enter(t, id)
	for _, c := range t.nodes[id].Children {
		if t.visitUntil(c, v, stop) {
			return true
		}
	}
	v.Leave(t, id)
	return false
}
