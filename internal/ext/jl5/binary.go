package jl5

import (
	"polyc/internal/ast"
	"polyc/internal/sema"
	"polyc/internal/types"
)

// BinaryExt types operators over boxed operands by unboxing them first.
type BinaryExt struct{ sema.Wrapper }

func (BinaryExt) Lang() string { return Name }

func (e BinaryExt) TypeCheck(c *sema.Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	l := c.Node(n.Kid(0)).Type
	r := c.Node(n.Kid(1)).Type
	boxed := c.Sys.IsPrimitiveWrapper(l) || c.Sys.IsPrimitiveWrapper(r)
	if !boxed || c.Sys.IsNull(l) || c.Sys.IsNull(r) {
		return e.Wrapper.TypeCheck(c, id)
	}
	t, err := sema.BinaryType(c, n.Op, unbox(c, l), unbox(c, r))
	if err != nil {
		return id, err
	}
	return c.SetType(id, t), nil
}

func unbox(c *sema.Checker, t types.TypeID) types.TypeID {
	if p, ok := c.Sys.Unbox(t); ok {
		return p
	}
	return t
}
