package ast

import (
	"polyc/internal/source"
	"polyc/internal/types"
)

// Builder allocates nodes with the behaviour objects of one language.
type Builder struct {
	Tree    *Tree
	Factory Factory
}

func NewBuilder(tree *Tree, f Factory) *Builder {
	return &Builder{Tree: tree, Factory: f}
}

// Make fills Ext and Caps for n.Kind and allocates it.
func (b *Builder) Make(n Node) NodeID {
	n.Ext = b.Factory.Ext(n.Kind)
	n.Caps = DefaultCaps(n.Kind)
	return b.Tree.New(n)
}

// Node allocates a node of kind with only children.
func (b *Builder) Node(kind Kind, sp source.Span, kids ...NodeID) NodeID {
	return b.Make(Node{Kind: kind, Span: sp, Kids: kids})
}

// Named allocates a node carrying a name and flags.
func (b *Builder) Named(kind Kind, sp source.Span, name string, flags types.Flags, kids ...NodeID) NodeID {
	return b.Make(Node{Kind: kind, Span: sp, Name: name, Flags: flags, Kids: kids})
}

func (b *Builder) List(sp source.Span, items []NodeID) NodeID {
	return b.Make(Node{Kind: KindList, Span: sp, Kids: items})
}

func (b *Builder) Binary(sp source.Span, op Op, l, r NodeID) NodeID {
	return b.Make(Node{Kind: KindBinary, Span: sp, Op: op, Kids: []NodeID{l, r}})
}

func (b *Builder) Unary(sp source.Span, op Op, x NodeID) NodeID {
	return b.Make(Node{Kind: KindUnary, Span: sp, Op: op, Kids: []NodeID{x}})
}

func (b *Builder) Lit(sp source.Span, lit Literal) NodeID {
	return b.Make(Node{Kind: KindLit, Span: sp, Lit: lit})
}
