// Package jl is the base language: every node gets the default behaviour.
package jl

import (
	"polyc/internal/ast"
	"polyc/internal/sema"
)

const Name = "jl"

type Factory struct{}

func (Factory) Lang() string { return Name }

func (Factory) Ext(kind ast.Kind) ast.Ext { return sema.BaseExt(kind) }

func Options() sema.Options { return sema.Options{} }
