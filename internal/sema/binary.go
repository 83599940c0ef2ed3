package sema

import (
	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/types"
)

func (binaryExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	l := c.Node(n.Kid(0)).Type
	r := c.Node(n.Kid(1)).Type
	t, err := BinaryType(c, n.Op, l, r)
	if err != nil {
		return id, err
	}
	return c.SetType(id, t), nil
}

// BinaryType computes the result type of l op r under the base language
// rules. Unresolved operands yield Unknown without an error.
func BinaryType(c *Checker, op ast.Op, l, r types.TypeID) (types.TypeID, error) {
	sys := c.Sys
	b := c.Builtins()
	if !sys.IsKnown(l) || !sys.IsKnown(r) {
		return b.Unknown, nil
	}
	bad := func(format string, t types.TypeID) error {
		return Errorf(diag.SemaBadOperands, emptySpan, format, op, c.TypeString(t))
	}
	// первый неподходящий операнд
	firstNot := func(ok func(types.TypeID) bool) (types.TypeID, bool) {
		if !ok(l) {
			return l, true
		}
		if !ok(r) {
			return r, true
		}
		return types.NoTypeID, false
	}

	switch op {
	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		if t, failed := firstNot(sys.IsNumeric); failed {
			return b.Unknown, bad("The %s operator must have numeric operands, not type %s.", t)
		}
		return b.Boolean, nil

	case ast.OpEq, ast.OpNe:
		if !sys.IsCastValid(l, r) && !sys.IsCastValid(r, l) {
			return b.Unknown, Errorf(diag.SemaBadOperands, emptySpan,
				"The %s operator must have operands of similar type.", op)
		}
		return b.Boolean, nil

	case ast.OpCondOr, ast.OpCondAnd:
		if t, failed := firstNot(sys.IsBoolean); failed {
			return b.Unknown, bad("The %s operator must have boolean operands, not type %s.", t)
		}
		return b.Boolean, nil
	}

	if op == ast.OpAdd && (sys.IsSubtype(l, b.String) || sys.IsSubtype(r, b.String)) {
		if t, failed := firstNot(sys.CanCoerceToString); failed {
			return b.Unknown, bad("The %s operator cannot convert type %s to String.", t)
		}
		return b.String, nil
	}

	isBitwise := op == ast.OpBitAnd || op == ast.OpBitOr || op == ast.OpBitXor
	if isBitwise && sys.IsBoolean(l) && sys.IsBoolean(r) {
		return b.Boolean, nil
	}

	toLong := func(t types.TypeID) bool { return sys.IsImplicitCastValid(t, b.Long) }
	switch {
	case op == ast.OpAdd:
		if t, failed := firstNot(sys.IsNumeric); failed {
			return b.Unknown, bad("The %s operator must have numeric or String operands, not type %s.", t)
		}
	case isBitwise:
		if t, failed := firstNot(toLong); failed {
			return b.Unknown, bad("The %s operator must have numeric or boolean operands, not type %s.", t)
		}
	case op == ast.OpSub, op == ast.OpMul, op == ast.OpDiv, op == ast.OpMod:
		if t, failed := firstNot(sys.IsNumeric); failed {
			return b.Unknown, bad("The %s operator must have numeric operands, not type %s.", t)
		}
	case op == ast.OpShl, op == ast.OpShr, op == ast.OpUshr:
		if t, failed := firstNot(toLong); failed {
			return b.Unknown, bad("The %s operator must have integral operands, not type %s.", t)
		}
		t, _ := sys.PromoteUnary(l)
		return t, nil
	}
	t, err := sys.Promote(l, r)
	if err != nil {
		return b.Unknown, Errorf(diag.SemaBadOperands, emptySpan, "%s", err.Error())
	}
	return t, nil
}
