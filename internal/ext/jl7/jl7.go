// Package jl7 extends jl5 with precise rethrow: throwing an effectively
// final catch parameter throws only what the try block could throw into
// that catch clause.
package jl7

import (
	"slices"

	"polyc/internal/ast"
	"polyc/internal/ext/jl5"
	"polyc/internal/sema"
)

const Name = "jl7"

type Factory struct{}

func (Factory) Lang() string { return Name }

func (Factory) Ext(kind ast.Kind) ast.Ext {
	base := jl5.Factory{}.Ext(kind).(sema.Ext)
	if kind == ast.KindThrow {
		return ThrowExt{sema.Wrapper{Base: base}}
	}
	return node{sema.Wrapper{Base: base}}
}

func Options() sema.Options { return jl5.Options() }

type node struct{ sema.Wrapper }

func (node) Lang() string { return Name }

// ThrowExt narrows "throw e" for a catch parameter e.
type ThrowExt struct{ sema.Wrapper }

func (ThrowExt) Lang() string { return Name }

func (e ThrowExt) ExceptionCheck(c *sema.Checker, id ast.NodeID) (ast.NodeID, error) {
	x := c.Node(c.Node(id).Kid(0))
	if x.Kind == ast.KindLocal {
		if ts, ok := c.Rethrow(x.LocalFact()); ok {
			c.SetThrown(id, append(slices.Clone(c.Thrown(id)), ts...))
			return id, nil
		}
	}
	return e.Wrapper.ExceptionCheck(c, id)
}
