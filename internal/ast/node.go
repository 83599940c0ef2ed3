package ast

import (
	"slices"

	"polyc/internal/source"
	"polyc/internal/types"
)

// Caps is the set of passes that apply to a node.
type Caps uint8

const (
	CapBuildTypes Caps = 1 << iota
	CapDisambiguate
	CapTypeCheck
	CapExceptionCheck
	CapTranslate

	CapNone Caps = 0
	CapAll       = CapBuildTypes | CapDisambiguate | CapTypeCheck | CapExceptionCheck | CapTranslate
)

func (c Caps) Has(other Caps) bool { return c&other == other }

// DefaultCaps returns the capability set a freshly built node of kind gets.
func DefaultCaps(kind Kind) Caps {
	switch kind {
	case KindInvalid:
		return CapNone
	case KindList, KindEmpty, KindImport:
		return CapTranslate
	case KindClassDecl, KindMethodDecl, KindFieldDecl, KindFormal, KindLocalDecl:
		return CapAll
	case KindTypeNode:
		return CapDisambiguate | CapTranslate
	}
	return CapDisambiguate | CapTypeCheck | CapExceptionCheck | CapTranslate
}

// Ext is the language-specific behaviour object attached to a node. The
// capability interfaces a concrete Ext implements are defined by the passes.
type Ext interface {
	Lang() string
}

// Factory hands out the behaviour object for each node kind of one language.
type Factory interface {
	Lang() string
	Ext(kind Kind) Ext
}

// Node is an immutable tree node. Change it through Tree.Update or
// Tree.WithKids, which allocate a new slot.
type Node struct {
	Kind  Kind
	Span  source.Span
	Ext   Ext
	Caps  Caps
	Kids  []NodeID
	Name  string
	Flags types.Flags
	Op    Op
	Lit   Literal
	Type  types.TypeID
	// Fact is a back-reference to a shared semantic fact: *types.MethodInstance,
	// *types.LocalInstance or *types.FieldInstance. Never mutate through it.
	Fact any
}

// Kid returns the i-th child or NoNodeID when the layout slot is out of range.
func (n *Node) Kid(i int) NodeID {
	if i < 0 || i >= len(n.Kids) {
		return NoNodeID
	}
	return n.Kids[i]
}

func (n *Node) Method() *types.MethodInstance {
	mi, _ := n.Fact.(*types.MethodInstance)
	return mi
}

func (n *Node) LocalFact() *types.LocalInstance {
	li, _ := n.Fact.(*types.LocalInstance)
	return li
}

func (n *Node) FieldFact() *types.FieldInstance {
	fi, _ := n.Fact.(*types.FieldInstance)
	return fi
}

func (n Node) clone() Node {
	n.Kids = slices.Clone(n.Kids)
	return n
}
