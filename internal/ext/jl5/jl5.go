// Package jl5 extends jl with boxing: assignment converts between
// primitives and their wrappers, and binary operators unbox their operands.
package jl5

import (
	"polyc/internal/ast"
	"polyc/internal/ext/jl"
	"polyc/internal/sema"
)

const Name = "jl5"

type Factory struct{}

func (Factory) Lang() string { return Name }

func (Factory) Ext(kind ast.Kind) ast.Ext {
	base := jl.Factory{}.Ext(kind).(sema.Ext)
	if kind == ast.KindBinary {
		return BinaryExt{sema.Wrapper{Base: base}}
	}
	return node{sema.Wrapper{Base: base}}
}

func Options() sema.Options { return sema.Options{Boxing: true} }

// node keeps the base behaviour under the jl5 name.
type node struct{ sema.Wrapper }

func (node) Lang() string { return Name }
