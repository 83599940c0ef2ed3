package sema

import (
	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/types"
)

// checkAssignable reports a mismatch when the value at expr cannot be
// assigned to a variable of type to. Unresolved types are not reported again.
func (c *Checker) checkAssignable(expr ast.NodeID, to types.TypeID) error {
	n := c.Node(expr)
	if n.Kind == ast.KindTypeNode {
		return Errorf(diag.SemaTypeMismatch, n.Span, "\"%s\" is a type, not a value.", n.Name)
	}
	from := n.Type
	if !c.Sys.IsKnown(from) || !c.Sys.IsKnown(to) {
		return nil
	}
	if c.IsAssignable(from, to) || c.isConstantNarrowing(n, to) {
		return nil
	}
	return Errorf(diag.SemaTypeMismatch, n.Span, "Cannot assign %s to %s.", c.TypeString(from), c.TypeString(to))
}

// isConstantNarrowing allows int constants into byte, short and char
// variables when the value fits.
func (c *Checker) isConstantNarrowing(n *ast.Node, to types.TypeID) bool {
	var v int64
	switch {
	case n.Kind == ast.KindLit && n.Lit.Kind == ast.LitInt:
		v, _ = n.Lit.Value.(int64)
	case n.Kind == ast.KindLocal && n.Type == c.Builtins().Int && n.LocalFact().IsConstant():
		var ok bool
		if v, ok = n.LocalFact().Const.(int64); !ok {
			return false
		}
	default:
		return false
	}
	switch c.Sys.Kind(to) {
	case types.KindByte:
		return v >= -128 && v <= 127
	case types.KindShort:
		return v >= -32768 && v <= 32767
	case types.KindChar:
		return v >= 0 && v <= 0xFFFF
	}
	return false
}

// isCondition accepts boolean, and Boolean when the language unboxes.
func (c *Checker) isCondition(t types.TypeID) bool {
	if c.Sys.IsBoolean(t) {
		return true
	}
	if c.Options.Boxing {
		p, ok := c.Sys.Unbox(t)
		return ok && c.Sys.IsBoolean(p)
	}
	return false
}

func (c *Checker) checkCondition(cond ast.NodeID, stmt string) error {
	n := c.Node(cond)
	if !c.Sys.IsKnown(n.Type) || c.isCondition(n.Type) {
		return nil
	}
	return Errorf(diag.SemaTypeMismatch, n.Span,
		"Condition of %s statement must have boolean type, not %s.", stmt, c.TypeString(n.Type))
}

func (ifExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	return id, c.checkCondition(c.Node(id).Kid(0), "if")
}

func (whileExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	return id, c.checkCondition(c.Node(id).Kid(0), "while")
}

func (returnExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	code := c.Ctx.CurrentCode()
	if code == nil {
		return id, Errorf(diag.SemaError, n.Span, "Return statement outside of a method.")
	}
	val := n.Kid(0)
	switch {
	case c.Sys.IsVoid(code.Return):
		if val.IsValid() {
			return id, Errorf(diag.SemaTypeMismatch, n.Span, "Cannot return a value from method of type void.")
		}
	case !val.IsValid():
		if c.Sys.IsKnown(code.Return) {
			return id, Errorf(diag.SemaTypeMismatch, n.Span,
				"Method \"%s\" must return a value of type %s.", code.Name, c.TypeString(code.Return))
		}
	default:
		vn := c.Node(val)
		if c.Sys.IsKnown(vn.Type) && c.Sys.IsKnown(code.Return) &&
			!c.IsAssignable(vn.Type, code.Return) && !c.isConstantNarrowing(vn, code.Return) {
			return id, Errorf(diag.SemaTypeMismatch, vn.Span,
				"Cannot return expression of type %s from method of type %s.",
				c.TypeString(vn.Type), c.TypeString(code.Return))
		}
	}
	return id, nil
}

func (throwExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	e := c.Node(c.Node(id).Kid(0))
	if c.Sys.IsKnown(e.Type) && !c.Sys.IsThrowable(e.Type) {
		return id, Errorf(diag.SemaNotThrowable, e.Span, "Can only throw subclasses of \"java.lang.Throwable\".")
	}
	return id, nil
}

func (throwExt) ExceptionCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	t := c.Node(c.Node(id).Kid(0)).Type
	if c.Sys.IsThrowable(t) {
		c.SetThrown(id, addThrown(c.Thrown(id), t))
	}
	return id, nil
}

func (catchExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	formal := c.Node(c.Node(id).Kid(0))
	tn := c.Node(formal.Kid(0))
	if c.Sys.IsKnown(tn.Type) && !c.Sys.IsThrowable(tn.Type) {
		return id, Errorf(diag.SemaNotThrowable, tn.Span, "Can only catch subclasses of \"java.lang.Throwable\".")
	}
	return id, nil
}
