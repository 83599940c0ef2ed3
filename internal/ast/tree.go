package ast

import (
	"fmt"
	"slices"

	"polyc/internal/source"
)

// Tree is the node arena of one compilation unit. Slots are never written
// after allocation, so a NodeID always denotes the same node value.
type Tree struct {
	File  source.FileID
	nodes *Arena[Node]
}

func NewTree(file source.FileID, capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Tree{File: file, nodes: NewArena[Node](capHint)}
}

// New allocates n and returns its id.
func (t *Tree) New(n Node) NodeID {
	return NodeID(t.nodes.Allocate(n.clone()))
}

// Node returns a read-only view of id. Panics on an invalid id: every id in
// a tree comes from this tree, so a miss is an internal invariant violation.
func (t *Tree) Node(id NodeID) *Node {
	n := t.nodes.Get(uint32(id))
	if n == nil {
		panic(InvariantError{Msg: fmt.Sprintf("node %d not in tree (len %d)", id, t.nodes.Len())})
	}
	return n
}

// Len returns the number of allocated slots.
func (t *Tree) Len() int {
	return int(t.nodes.Len())
}

// WithKids returns id itself when kids equals its current children,
// otherwise a new node that differs only in its children.
func (t *Tree) WithKids(id NodeID, kids []NodeID) NodeID {
	n := t.Node(id)
	if slices.Equal(n.Kids, kids) {
		return id
	}
	cp := *n
	cp.Kids = kids
	return t.New(cp)
}

// Update allocates a copy of id changed by edit. When edit leaves the node
// equal to the original, id itself is returned.
func (t *Tree) Update(id NodeID, edit func(n *Node)) NodeID {
	orig := t.Node(id)
	cp := orig.clone()
	edit(&cp)
	if sameNode(orig, &cp) {
		return id
	}
	return t.New(cp)
}

func sameNode(a, b *Node) bool {
	return a.Kind == b.Kind && a.Span == b.Span && a.Ext == b.Ext && a.Caps == b.Caps &&
		slices.Equal(a.Kids, b.Kids) && a.Name == b.Name && a.Flags == b.Flags &&
		a.Op == b.Op && a.Lit == b.Lit && a.Type == b.Type && a.Fact == b.Fact
}

// InvariantError is raised (as a panic) when the tree is structurally broken.
// The scheduler turns it into an internal error.
type InvariantError struct {
	Msg string
}

func (e InvariantError) Error() string { return "ast invariant: " + e.Msg }

// Expect panics with InvariantError unless id is a node of kind.
func (t *Tree) Expect(id NodeID, kind Kind) *Node {
	n := t.Node(id)
	if n.Kind != kind {
		panic(InvariantError{Msg: fmt.Sprintf("node %d is %s, want %s", id, n.Kind, kind)})
	}
	return n
}
