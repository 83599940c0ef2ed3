package sema

import (
	"errors"

	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/types"
)

// --- TypeNode -----------------------------------------------------------------

func (typeNodeExt) Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	if n.Type != types.NoTypeID {
		return id, nil
	}
	t, ok := c.ResolveType(n.Name)
	if !ok {
		_, simple := types.SplitName(n.Name)
		s := suggest(simple, c.visibleClassNames())
		var fixes []diag.Fix
		if s != "" && simple == n.Name {
			fixes = append(fixes, renameFix(n.Span, n.Name, s))
		}
		c.ReportFix(diag.SemaUnresolvedClass, n.Span, "Could not find type \""+n.Name+"\"."+hint(s), fixes)
		t = c.Builtins().Unknown
	}
	return c.SetType(id, t), nil
}

// --- Lit / Local / This -------------------------------------------------------

func (litExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	b := c.Builtins()
	var t types.TypeID
	switch c.Node(id).Lit.Kind {
	case ast.LitInt:
		t = b.Int
	case ast.LitLong:
		t = b.Long
	case ast.LitDouble:
		t = b.Double
	case ast.LitBool:
		t = b.Boolean
	case ast.LitChar:
		t = b.Char
	case ast.LitString:
		t = b.String
	case ast.LitNull:
		t = b.Null
	default:
		t = b.Unknown
	}
	return c.SetType(id, t), nil
}

func (localExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	li := c.Node(id).LocalFact()
	if li == nil {
		return c.SetType(id, c.Builtins().Unknown), nil
	}
	return c.SetType(id, li.Type), nil
}

func (thisExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	if c.Ctx.InStaticContext() {
		return id, Errorf(diag.SemaError, c.Node(id).Span, "Cannot use \"this\" in a static context.")
	}
	return c.SetType(id, c.Ctx.CurrentClass()), nil
}

// --- Name ---------------------------------------------------------------------

// Disambiguate turns a simple name into a local or a class reference. Names
// that may be fields are left for type checking, when every supertype's
// members are known.
func (nameExt) Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	if li, ok := c.Ctx.FindLocal(n.Name); ok {
		return c.Rewrite(id, ast.KindLocal, func(n *ast.Node) { n.Fact = li }), nil
	}
	if info := c.Sys.ClassInfo(c.Ctx.CurrentClass()); info != nil && info.Field(n.Name) != nil {
		return id, nil
	}
	if ct, ok := c.ResolveClass(n.Name); ok {
		return c.Rewrite(id, ast.KindTypeNode, func(n *ast.Node) { n.Type = ct }), nil
	}
	return id, nil
}

func (nameExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	ct := c.Ctx.CurrentClass()
	if fi, ok := c.Sys.FindField(ct, n.Name, ct); ok {
		if c.Ctx.InStaticContext() && !fi.Flags.IsStatic() {
			return id, Errorf(diag.SemaError, n.Span,
				"Cannot access non-static field \"%s\" from a static context.", n.Name)
		}
		return c.Rewrite(id, ast.KindField, func(n *ast.Node) {
			n.Kids = []ast.NodeID{ast.NoNodeID}
			n.Fact = fi
			n.Type = fi.Type
		}), nil
	}
	candidates := c.Ctx.LocalNames()
	if info := c.Sys.ClassInfo(ct); info != nil {
		for _, f := range info.Fields {
			candidates = append(candidates, f.Name)
		}
	}
	s := suggest(n.Name, candidates)
	err := Errorf(diag.SemaUnresolvedName, n.Span, "Could not find symbol \"%s\".%s", n.Name, hint(s))
	if s != "" {
		err = err.WithFix(renameFix(n.Span, n.Name, s))
	}
	return id, err
}

// --- Field --------------------------------------------------------------------

// ambiguousPrefix renders a receiver chain that is still made of bare names.
func (c *Checker) ambiguousPrefix(id ast.NodeID) (string, bool) {
	if !id.IsValid() {
		return "", false
	}
	n := c.Node(id)
	switch {
	case n.Kind == ast.KindName:
		return n.Name, true
	case n.Kind == ast.KindField && n.Fact == nil:
		prefix, ok := c.ambiguousPrefix(n.Kid(0))
		if !ok {
			return "", false
		}
		return prefix + "." + n.Name, true
	}
	return "", false
}

// Disambiguate resolves "a.b.C" chains of bare names to a class.
func (fieldExt) Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	prefix, ok := c.ambiguousPrefix(n.Kid(0))
	if !ok {
		return id, nil
	}
	qualified := prefix + "." + n.Name
	if ct, ok := c.Sys.Resolve(qualified); ok {
		return c.Rewrite(id, ast.KindTypeNode, func(n *ast.Node) {
			n.Kids = nil
			n.Name = qualified
			n.Type = ct
		}), nil
	}
	return id, nil
}

// receiverClass returns the class a member is looked up in and whether the
// access is static. ok is false when an earlier error already covers it.
func (c *Checker) receiverClass(recv ast.NodeID, member string) (ct types.TypeID, static bool, ok bool, err error) {
	if !recv.IsValid() {
		return c.Ctx.CurrentClass(), c.Ctx.InStaticContext(), true, nil
	}
	rn := c.Node(recv)
	if rn.Kind == ast.KindTypeNode {
		return rn.Type, true, c.Sys.IsClass(rn.Type), nil
	}
	if !c.Sys.IsKnown(rn.Type) {
		return types.NoTypeID, false, false, nil
	}
	if !c.Sys.IsClass(rn.Type) {
		return types.NoTypeID, false, false, Errorf(diag.SemaTypeMismatch, rn.Span,
			"Cannot access member \"%s\" on a value of type %s.", member, c.TypeString(rn.Type))
	}
	return rn.Type, false, true, nil
}

func (fieldExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	if fi := n.FieldFact(); fi != nil {
		return c.SetType(id, fi.Type), nil
	}
	ct, static, ok, err := c.receiverClass(n.Kid(0), n.Name)
	if err != nil || !ok {
		return c.SetType(id, c.Builtins().Unknown), err
	}
	fi, found := c.Sys.FindField(ct, n.Name, c.Ctx.CurrentClass())
	if !found {
		var names []string
		if info := c.Sys.ClassInfo(ct); info != nil {
			for _, f := range info.Fields {
				names = append(names, f.Name)
			}
		}
		return id, Errorf(diag.SemaUnresolvedName, n.Span, "Field \"%s\" not found in type \"%s\".%s",
			n.Name, c.TypeString(ct), didYouMean(n.Name, names))
	}
	if static && n.Kid(0).IsValid() && !fi.Flags.IsStatic() {
		return id, Errorf(diag.SemaError, n.Span, "Cannot access non-static field \"%s\" statically.", n.Name)
	}
	return c.Tree.Update(id, func(n *ast.Node) {
		n.Fact = fi
		n.Type = fi.Type
	}), nil
}

// --- Call / New ---------------------------------------------------------------

func (callExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	args := c.Node(n.Kid(1)).Kids
	argTypes := make([]types.TypeID, len(args))
	for i, a := range args {
		an := c.Node(a)
		if an.Kind == ast.KindTypeNode {
			return id, Errorf(diag.SemaTypeMismatch, an.Span, "\"%s\" is a type, not a value.", an.Name)
		}
		if !c.Sys.IsKnown(an.Type) {
			return c.SetType(id, c.Builtins().Unknown), nil
		}
		argTypes[i] = an.Type
	}
	ct, static, ok, err := c.receiverClass(n.Kid(0), n.Name)
	if err != nil || !ok {
		return c.SetType(id, c.Builtins().Unknown), err
	}
	mi, err := c.Sys.FindMethod(ct, n.Name, argTypes, c.Ctx.CurrentClass())
	if err != nil {
		if !errors.Is(err, types.ErrNoSuchMethod) {
			return id, err
		}
		var names []string
		if info := c.Sys.ClassInfo(ct); info != nil {
			for _, m := range info.Methods {
				names = append(names, m.Name)
			}
		}
		hint := ""
		if len(c.Sys.ClassInfo(ct).MethodsNamed(n.Name)) == 0 {
			hint = didYouMean(n.Name, names)
		}
		return id, Errorf(diag.SemaNoSuchMethod, n.Span, "No valid method call found for %s(%s) in %s.%s",
			n.Name, c.Sys.Interner().TypeList(argTypes), c.TypeString(ct), hint)
	}
	if static && !mi.Flags.IsStatic() {
		return id, Errorf(diag.SemaError, n.Span,
			"Cannot call non-static method %s from a static context.", mi.Signature(c.Sys.Interner()))
	}
	return c.Tree.Update(id, func(n *ast.Node) {
		n.Fact = mi
		n.Type = mi.Return
	}), nil
}

func (newExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	tn := c.Node(n.Kid(0))
	t := tn.Type
	if !c.Sys.IsKnown(t) {
		return c.SetType(id, c.Builtins().Unknown), nil
	}
	if !c.Sys.IsClass(t) {
		return id, Errorf(diag.SemaCannotInstantiate, tn.Span, "Cannot instantiate type %s.", c.TypeString(t))
	}
	if info := c.Sys.ClassInfo(t); info.Flags.IsAbstract() || info.IsInterface() {
		return id, Errorf(diag.SemaCannotInstantiate, n.Span, "%s is abstract; cannot be instantiated.", info.Name)
	}
	return c.SetType(id, t), nil
}

// --- Unary / Assign -----------------------------------------------------------

func (unaryExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	x := c.Node(n.Kid(0)).Type
	if !c.Sys.IsKnown(x) {
		return c.SetType(id, c.Builtins().Unknown), nil
	}
	if c.Options.Boxing {
		if p, ok := c.Sys.Unbox(x); ok {
			x = p
		}
	}
	var t types.TypeID
	switch n.Op {
	case ast.OpNeg, ast.OpPos:
		if !c.Sys.IsNumeric(x) {
			return id, Errorf(diag.SemaBadOperands, n.Span, "Operand of %s operator must be numeric.", n.Op)
		}
		t, _ = c.Sys.PromoteUnary(x)
	case ast.OpBitNot:
		if !c.Sys.IsIntegral(x) {
			return id, Errorf(diag.SemaBadOperands, n.Span, "Operand of %s operator must be integral.", n.Op)
		}
		t, _ = c.Sys.PromoteUnary(x)
	case ast.OpNot:
		if !c.Sys.IsBoolean(x) {
			return id, Errorf(diag.SemaBadOperands, n.Span, "Operand of %s operator must be boolean.", n.Op)
		}
		t = x
	default:
		return id, Errorf(diag.SemaBadOperands, n.Span, "Unknown unary operator %s.", n.Op)
	}
	return c.SetType(id, t), nil
}

func (assignExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	target := c.Node(n.Kid(0))
	switch target.Kind {
	case ast.KindLocal:
		if li := target.LocalFact(); li != nil && li.Flags.IsFinal() {
			return id, Errorf(diag.SemaError, target.Span, "Cannot assign a value to final variable \"%s\".", li.Name)
		}
	case ast.KindField:
		if fi := target.FieldFact(); fi != nil && fi.Flags.IsFinal() {
			return id, Errorf(diag.SemaError, target.Span, "Cannot assign a value to final field \"%s\".", fi.Name)
		}
	default:
		if c.Sys.IsKnown(target.Type) {
			return id, Errorf(diag.SemaTypeMismatch, target.Span, "Left side of assignment must be a variable.")
		}
	}
	if !c.Sys.IsKnown(target.Type) {
		return c.SetType(id, c.Builtins().Unknown), nil
	}
	if err := c.checkAssignable(n.Kid(1), target.Type); err != nil {
		return id, err
	}
	return c.SetType(id, target.Type), nil
}
