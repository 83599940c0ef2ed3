package sema

import (
	"slices"
	"strings"

	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/types"
)

func (c *Checker) inInterface() bool {
	info := c.Sys.ClassInfo(c.Ctx.CurrentClass())
	return info != nil && info.IsInterface()
}

// --- SourceFile ---------------------------------------------------------------

func (sourceFileExt) Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	file := c.Node(id)
	for _, imp := range c.Node(file.Kid(0)).Kids {
		n := c.Node(imp)
		if strings.HasSuffix(n.Name, ".*") {
			continue
		}
		if _, ok := c.Sys.Resolve(n.Name); !ok {
			c.Report(diag.SemaUnresolvedClass, n.Span, "Imported class \""+n.Name+"\" not found.")
		}
	}
	return id, nil
}

// --- ClassDecl ----------------------------------------------------------------

func (classDeclExt) OverrideBuildTypes(c *Checker, id ast.NodeID) (ast.NodeID, bool, error) {
	n := c.Node(id)
	name := qualify(c.pkg, n.Name)
	ct, err := c.Sys.DeclareClass(name, n.Span, c.env.Path)
	if err != nil {
		return id, true, Errorf(diag.SemaDuplicateClass, n.Span, "Duplicate class \"%s\".", name)
	}
	flags := n.Flags
	if flags.IsInterface() {
		flags |= types.FlagAbstract
	}
	c.Sys.SetHeader(ct, flags, types.NoTypeID, nil)

	c.Ctx.Push(ClassScope(ct))
	out := c.VisitKids(id)
	c.Ctx.Pop()

	c.Sys.MarkMembers(ct)
	return c.SetType(out, ct), true, nil
}

// OverrideDisambiguate resolves the header before the members so that
// member lookups see the supertypes.
func (classDeclExt) OverrideDisambiguate(c *Checker, id ast.NodeID) (ast.NodeID, bool, error) {
	n := c.Node(id)
	super := c.Visit(n.Kid(0))
	ifaces := c.Visit(n.Kid(1))
	id = c.Tree.WithKids(id, []ast.NodeID{super, ifaces, n.Kid(2)})
	c.setHeader(id)

	n = c.Node(id)
	c.Ctx.Push(ClassScope(n.Type))
	members := c.Visit(n.Kid(2))
	c.Ctx.Pop()
	return c.Tree.WithKids(id, []ast.NodeID{n.Kid(0), n.Kid(1), members}), true, nil
}

func (c *Checker) setHeader(id ast.NodeID) {
	n := c.Node(id)
	ct := n.Type
	info := c.Sys.ClassInfo(ct)
	isIface := n.Flags.IsInterface()
	in := c.Sys.Interner()

	super := types.NoTypeID
	if sn := n.Kid(0); sn.IsValid() {
		st := c.Node(sn).Type
		switch {
		case !c.Sys.IsKnown(st):
		case !c.Sys.IsClass(st):
			c.Report(diag.SemaBadSupertype, c.Node(sn).Span, "Cannot inherit from \""+in.TypeString(st)+"\".")
		case c.Sys.IsInterface(st):
			c.Report(diag.SemaBadSupertype, c.Node(sn).Span,
				"Class \""+info.Name+"\" cannot extend interface \""+in.TypeString(st)+"\".")
		case c.Sys.ClassInfo(st).Flags.IsFinal():
			c.Report(diag.SemaBadSupertype, c.Node(sn).Span, "Cannot inherit from final class \""+in.TypeString(st)+"\".")
		default:
			super = st
		}
	}

	var ifaces []types.TypeID
	for _, tn := range c.Node(n.Kid(1)).Kids {
		it := c.Node(tn).Type
		switch {
		case !c.Sys.IsKnown(it):
		case !c.Sys.IsInterface(it):
			what := "Class"
			if isIface {
				what = "Interface"
			}
			c.Report(diag.SemaBadSupertype, c.Node(tn).Span,
				what+" \""+info.Name+"\" cannot inherit from non-interface type \""+in.TypeString(it)+"\".")
		case slices.Contains(ifaces, it):
			c.Report(diag.SemaBadSupertype, c.Node(tn).Span, "Duplicate interface \""+in.TypeString(it)+"\".")
		default:
			ifaces = append(ifaces, it)
		}
	}

	c.Sys.SetHeader(ct, info.Flags, super, ifaces)
	// цикл наследования: убираем замыкающие его ребра
	cyclic := false
	if super != types.NoTypeID && c.Sys.IsSubtype(super, ct) {
		super, cyclic = types.NoTypeID, true
	}
	ifaces = slices.DeleteFunc(ifaces, func(it types.TypeID) bool {
		if c.Sys.IsSubtype(it, ct) {
			cyclic = true
			return true
		}
		return false
	})
	if cyclic {
		c.Report(diag.SemaInheritanceCycle, n.Span, "Circular inheritance involving \""+info.Name+"\".")
		c.Sys.SetHeader(ct, info.Flags, super, ifaces)
	}
}

func (classDeclExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	if err := types.CheckClassFlags(n.Flags); err != nil {
		return id, Errorf(diag.SemaIllegalFlags, n.Span, "%s", err.Error())
	}
	info := c.Sys.ClassInfo(n.Type)
	if info.Flags.IsAbstract() || info.IsInterface() {
		return id, nil
	}
	if mj := c.Sys.UnimplementedAbstract(n.Type); mj != nil {
		in := c.Sys.Interner()
		return id, Errorf(diag.SemaShouldBeAbstract, n.Span,
			"%s should be declared abstract; it does not define %s, which is declared in %s.",
			info.Name, mj.WithFlags(0).Describe(in), in.TypeString(mj.Container))
	}
	return id, nil
}

// --- FieldDecl ----------------------------------------------------------------

func (fieldDeclExt) BuildTypes(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	ct := c.Ctx.CurrentClass()
	info := c.Sys.ClassInfo(ct)
	if info.Field(n.Name) != nil {
		return id, Errorf(diag.SemaMultiplyDefined, n.Span, "Field \"%s\" multiply-defined in %s.", n.Name, info.Name)
	}
	flags := n.Flags
	if info.IsInterface() {
		flags |= types.FlagPublic | types.FlagStatic | types.FlagFinal
	}
	fi := &types.FieldInstance{
		Container: ct,
		Name:      n.Name,
		Flags:     flags,
		Type:      c.Builtins().Unknown,
		Decl:      n.Span,
	}
	c.Sys.AddField(ct, fi)
	return c.Tree.Update(id, func(n *ast.Node) { n.Fact = fi }), nil
}

func (fieldDeclExt) Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	fi := n.FieldFact()
	if fi == nil {
		return id, nil
	}
	t := c.Node(n.Kid(0)).Type
	if fi.Type == t {
		return id, nil
	}
	nf := fi.WithType(t)
	c.Sys.ReplaceField(fi.Container, fi, nf)
	return c.Tree.Update(id, func(n *ast.Node) { n.Fact = nf }), nil
}

func (fieldDeclExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	fi := n.FieldFact()
	if fi == nil {
		return id, nil
	}
	if err := types.CheckFieldFlags(n.Flags, c.inInterface()); err != nil {
		return id, Errorf(diag.SemaIllegalFlags, n.Span, "%s", err.Error())
	}
	if c.Sys.IsVoid(fi.Type) {
		return id, Errorf(diag.SemaTypeMismatch, c.Node(n.Kid(0)).Span, "Field \"%s\" cannot have type void.", n.Name)
	}
	if init := n.Kid(1); init.IsValid() {
		return id, c.checkAssignable(init, fi.Type)
	}
	return id, nil
}

func (fieldDeclExt) ExceptionCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	var err error
	for _, t := range c.Thrown(id) {
		if !c.Sys.IsUncheckedException(t) {
			err = Errorf(diag.SemaUndeclaredException, c.Node(id).Span,
				"A field initializer may not throw the checked exception \"%s\".", c.TypeString(t))
			break
		}
	}
	c.SetThrown(id, nil)
	return id, err
}

// --- MethodDecl ---------------------------------------------------------------

func (methodDeclExt) BuildTypes(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	ct := c.Ctx.CurrentClass()
	flags := n.Flags
	if c.inInterface() {
		flags |= types.FlagPublic | types.FlagAbstract
	}
	unknown := c.Builtins().Unknown
	params := make([]types.TypeID, len(c.Node(n.Kid(1)).Kids))
	for i := range params {
		params[i] = unknown
	}
	mi := &types.MethodInstance{
		Container: ct,
		Name:      n.Name,
		Flags:     flags,
		Return:    unknown,
		Params:    params,
		Decl:      n.Span,
	}
	c.Sys.AddMethod(ct, mi)
	return c.Tree.Update(id, func(n *ast.Node) { n.Fact = mi }), nil
}

// Disambiguate rebuilds the method fact from the resolved signature. The
// class table slot is rebound only when something changed.
func (methodDeclExt) Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	mi := n.Method()
	if mi == nil {
		return id, nil
	}
	ret := c.Node(n.Kid(0)).Type
	formals := c.Node(n.Kid(1)).Kids
	params := make([]types.TypeID, len(formals))
	for i, f := range formals {
		params[i] = c.Node(c.Node(f).Kid(0)).Type
	}
	var throws []types.TypeID
	for _, t := range c.Node(n.Kid(2)).Kids {
		throws = append(throws, c.Node(t).Type)
	}

	nf := mi
	if nf.Return != ret {
		nf = nf.WithReturn(ret)
	}
	if !slices.Equal(nf.Params, params) {
		nf = nf.WithParams(params)
	}
	if !slices.Equal(nf.Throws, throws) {
		nf = nf.WithThrows(throws)
	}
	if nf == mi {
		return id, nil
	}
	c.Sys.ReplaceMethod(mi.Container, mi, nf)
	return c.Tree.Update(id, func(n *ast.Node) { n.Fact = nf }), nil
}

func (methodDeclExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	mi := n.Method()
	if mi == nil {
		return id, nil
	}
	in := c.Sys.Interner()

	if c.duplicateMethod(mi) != nil {
		c.Report(diag.SemaMultiplyDefined, n.Span, "Duplicate method \""+mi.Signature(in)+"\" in "+in.TypeString(mi.Container)+".")
	}

	if err := types.CheckMethodFlags(n.Flags, c.inInterface()); err != nil {
		return id, Errorf(diag.SemaIllegalFlags, n.Span, "%s", err.Error())
	}
	hasBody := n.Kid(3).IsValid()
	switch {
	case !hasBody && !mi.Flags.IsAbstract() && !mi.Flags.IsNative():
		return id, Errorf(diag.SemaMissingBody, n.Span, "Missing method body.")
	case hasBody && mi.Flags.IsAbstract():
		return id, Errorf(diag.SemaUnexpectedBody, n.Span, "An abstract method cannot have a body.")
	case hasBody && mi.Flags.IsNative():
		return id, Errorf(diag.SemaUnexpectedBody, n.Span, "A native method cannot have a body.")
	}

	for i, tn := range c.Node(n.Kid(2)).Kids {
		t := mi.Throws[i]
		if c.Sys.IsKnown(t) && !c.Sys.IsThrowable(t) {
			return id, Errorf(diag.SemaNotThrowable, c.Node(tn).Span,
				"Type \"%s\" is not a subclass of \"java.lang.Throwable\".", in.TypeString(t))
		}
	}

	for _, mj := range c.overridden(mi) {
		if err := c.Sys.CheckOverride(mi, mj); err != nil {
			return id, Errorf(diag.SemaBadOverride, n.Span, "%s", err.Error())
		}
	}

	if hasBody && !c.Sys.IsVoid(mi.Return) && c.Sys.IsKnown(mi.Return) && canCompleteNormally(c.Tree, n.Kid(3)) {
		c.Report(diag.SemaMissingReturn, n.Span, "Missing return statement.")
	}
	return id, nil
}

// overridden skips the override checks while the signature has unresolved parts.
func (c *Checker) overridden(mi *types.MethodInstance) []*types.MethodInstance {
	if !c.Sys.IsKnown(mi.Return) {
		return nil
	}
	for _, p := range mi.Params {
		if !c.Sys.IsKnown(p) {
			return nil
		}
	}
	return c.Sys.OverriddenMethods(mi)
}

// duplicateMethod returns an earlier method of the same class with mi's signature.
func (c *Checker) duplicateMethod(mi *types.MethodInstance) *types.MethodInstance {
	info := c.Sys.ClassInfo(mi.Container)
	for _, other := range info.MethodsNamed(mi.Name) {
		if other != mi && other.SameSignature(mi) && other.Decl.Start < mi.Decl.Start {
			return other
		}
	}
	return nil
}

// ExceptionCheck reports the first checked exception the body may throw
// that the throws clause does not cover. The thrown set stops here either way.
func (methodDeclExt) ExceptionCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	mi := n.Method()
	var err error
	if mi != nil {
		for _, t := range c.Thrown(id) {
			if c.Sys.IsUncheckedException(t) || c.Sys.CoveredBy(t, mi.Throws) {
				continue
			}
			err = Errorf(diag.SemaUndeclaredException, n.Span,
				"Method \"%s\" throws the undeclared exception \"%s\".", mi.Name, c.TypeString(t))
			break
		}
	}
	c.SetThrown(id, nil)
	return id, err
}

// --- Formal / LocalDecl -------------------------------------------------------

func (formalExt) Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	li := &types.LocalInstance{
		Name:  n.Name,
		Flags: n.Flags,
		Type:  c.Node(n.Kid(0)).Type,
		Decl:  n.Span,
	}
	return c.Tree.Update(id, func(n *ast.Node) { n.Fact = li }), nil
}

func (formalExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	return id, c.checkLocal(id)
}

func (localDeclExt) Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	n := c.Node(id)
	li := &types.LocalInstance{
		Name:  n.Name,
		Flags: n.Flags,
		Type:  c.Node(n.Kid(0)).Type,
		Decl:  n.Span,
	}
	// final с литеральным инициализатором: константа
	if init := n.Kid(1); init.IsValid() && n.Flags.IsFinal() {
		if lit := c.Node(init); lit.Kind == ast.KindLit && lit.Lit.Kind != ast.LitNull {
			li.Const = lit.Lit.Value
		}
	}
	return c.Tree.Update(id, func(n *ast.Node) { n.Fact = li }), nil
}

func (localDeclExt) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	if err := c.checkLocal(id); err != nil {
		return id, err
	}
	n := c.Node(id)
	if init := n.Kid(1); init.IsValid() {
		return id, c.checkAssignable(init, n.LocalFact().Type)
	}
	return id, nil
}

// checkLocal runs the checks shared by formals and local declarations. It
// runs before the local is added to the scope.
func (c *Checker) checkLocal(id ast.NodeID) error {
	n := c.Node(id)
	li := n.LocalFact()
	if li == nil {
		return nil
	}
	if err := types.CheckLocalFlags(n.Flags); err != nil {
		return Errorf(diag.SemaIllegalFlags, n.Span, "%s", err.Error())
	}
	if c.Sys.IsVoid(li.Type) {
		return Errorf(diag.SemaTypeMismatch, c.Node(n.Kid(0)).Span, "Variable \"%s\" cannot have type void.", li.Name)
	}
	if _, ok := c.Ctx.FindLocal(li.Name); ok {
		where := ""
		if code := c.Ctx.CurrentCode(); code != nil {
			where = " in " + code.Signature(c.Sys.Interner())
		}
		return Errorf(diag.SemaMultiplyDefined, n.Span, "Local variable \"%s\" multiply-defined%s.", li.Name, where)
	}
	return nil
}
