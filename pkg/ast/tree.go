package ast

import (
	"iter"
	"strings"
)

// NodeID addresses a node inside a Tree.
type NodeID int32

// NoNode is returned by lookups that find nothing.
const NoNode NodeID = -1

// Node is a single syntax node owned by a Tree.
type Node struct {
	Kind      Kind
	Type      string // grammar node type, e.g. "arrow_function" or "async"
	Field     string // field name under the parent, empty when unnamed
	Named     bool
	Missing   bool
	Parent    NodeID
	End       NodeID // one past the last node of this subtree
	Children  []NodeID
	StartLine int // 1-based
	EndLine   int // 1-based
	StartByte uint32
	EndByte   uint32
}

// Tree is a pre-order arena of nodes plus the source they were parsed from.
type Tree struct {
	Source []byte
	Nodes  []Node
}

// Builder appends nodes to a Tree in pre-order. Callers must Open a node
// before opening any of its children and Close it after the last one.
type Builder struct {
	tree  *Tree
	stack []NodeID
}

// NewBuilder creates a builder over source with room for hint nodes.
func NewBuilder(source []byte, hint int) *Builder {
	return &Builder{tree: &Tree{Source: source, Nodes: make([]Node, 0, hint)}}
}

// Open appends n as a child of the innermost open node and makes it the
// innermost open node.
func (b *Builder) Open(n Node) NodeID {
	id := NodeID(len(b.tree.Nodes))
	n.Parent = NoNode
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		n.Parent = parent
		b.tree.Nodes[parent].Children = append(b.tree.Nodes[parent].Children, id)
	}
	b.tree.Nodes = append(b.tree.Nodes, n)
	b.stack = append(b.stack, id)
	return id
}

// Close finishes the innermost open node.
func (b *Builder) Close() {
	id := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.tree.Nodes[id].End = NodeID(len(b.tree.Nodes))
}

// Tree returns the built tree. Any nodes still open are closed.
func (b *Builder) Tree() *Tree {
	for len(b.stack) > 0 {
		b.Close()
	}
	return b.tree
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// Root returns the root node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.Nodes) == 0 {
		return NoNode
	}
	return 0
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Kind returns the kind of id, or KindOther for NoNode.
func (t *Tree) Kind(id NodeID) Kind {
	if id == NoNode {
		return KindOther
	}
	return t.Nodes[id].Kind
}

// Type returns the grammar node type of id.
func (t *Tree) Type(id NodeID) string {
	if id == NoNode {
		return ""
	}
	return t.Nodes[id].Type
}

// Line returns the 1-based start line of id.
func (t *Tree) Line(id NodeID) int {
	if id == NoNode {
		return 0
	}
	return t.Nodes[id].StartLine
}

// Parent returns the parent of id, or NoNode at the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	return t.Nodes[id].Parent
}

// Text returns the source text covered by id.
// Returns empty string for NoNode or out-of-range offsets.
func (t *Tree) Text(id NodeID) string {
	if id == NoNode {
		return ""
	}
	n := &t.Nodes[id]
	if n.StartByte > n.EndByte || int(n.EndByte) > len(t.Source) {
		return ""
	}
	return string(t.Source[n.StartByte:n.EndByte])
}

// Children iterates the direct children of id, named and anonymous.
func (t *Tree) Children(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if id == NoNode {
			return
		}
		for _, c := range t.Nodes[id].Children {
			if !yield(c) {
				return
			}
		}
	}
}

// NamedChildren iterates the named children of id.
func (t *Tree) NamedChildren(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for c := range t.Children(id) {
			if t.Nodes[c].Named && !yield(c) {
				return
			}
		}
	}
}

// ChildrenByField iterates the children of id stored under field.
func (t *Tree) ChildrenByField(id NodeID, field string) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for c := range t.Children(id) {
			if t.Nodes[c].Field == field && !yield(c) {
				return
			}
		}
	}
}

// ChildByField returns the first child of id stored under field.
func (t *Tree) ChildByField(id NodeID, field string) NodeID {
	for c := range t.ChildrenByField(id, field) {
		return c
	}
	return NoNode
}

// ChildOfKind returns the first direct child of id with the given kind.
func (t *Tree) ChildOfKind(id NodeID, kind Kind) NodeID {
	for c := range t.Children(id) {
		if t.Nodes[c].Kind == kind {
			return c
		}
	}
	return NoNode
}

// HasToken reports whether id has a direct child whose grammar type is tok,
// such as the anonymous "async" or "static" keywords.
func (t *Tree) HasToken(id NodeID, tok string) bool {
	for c := range t.Children(id) {
		if t.Nodes[c].Type == tok {
			return true
		}
	}
	return false
}

// Descendants iterates id and every node below it in pre-order.
func (t *Tree) Descendants(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if id == NoNode {
			return
		}
		for i := id; i < t.Nodes[id].End; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Ancestors iterates the parents of id from the nearest upward.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if id == NoNode {
			return
		}
		for p := t.Nodes[id].Parent; p != NoNode; p = t.Nodes[p].Parent {
			if !yield(p) {
				return
			}
		}
	}
}

// Enclosing returns the nearest ancestor of id with the given kind.
func (t *Tree) Enclosing(id NodeID, kind Kind) NodeID {
	for a := range t.Ancestors(id) {
		if t.Nodes[a].Kind == kind {
			return a
		}
	}
	return NoNode
}

// Contains reports whether inner lies in the subtree of outer.
func (t *Tree) Contains(outer, inner NodeID) bool {
	if outer == NoNode || inner == NoNode {
		return false
	}
	return inner >= outer && inner < t.Nodes[outer].End
}

// PrevSibling returns the sibling immediately before id, or NoNode.
func (t *Tree) PrevSibling(id NodeID) NodeID {
	p := t.Parent(id)
	if p == NoNode {
		return NoNode
	}
	prev := NoNode
	for _, c := range t.Nodes[p].Children {
		if c == id {
			return prev
		}
		prev = c
	}
	return NoNode
}

// HasError reports whether the tree holds an ERROR or MISSING node.
func (t *Tree) HasError() bool {
	for i := range t.Nodes {
		if t.Nodes[i].Kind == KindError || t.Nodes[i].Missing {
			return true
		}
	}
	return false
}

// Dump renders the subtree of id as an indented S-expression of node types,
// one node per line. It is intended for tests and debugging.
func (t *Tree) Dump(id NodeID) string {
	var sb strings.Builder
	depth := map[NodeID]int{}
	for n := range t.Descendants(id) {
		d := 0
		if n != id {
			d = depth[t.Nodes[n].Parent] + 1
		}
		depth[n] = d
		if !t.Nodes[n].Named {
			continue
		}
		sb.WriteString(strings.Repeat("  ", d))
		if f := t.Nodes[n].Field; f != "" {
			sb.WriteString(f)
			sb.WriteString(": ")
		}
		sb.WriteString(t.Nodes[n].Type)
		sb.WriteByte('\n')
	}
	return sb.String()
}
