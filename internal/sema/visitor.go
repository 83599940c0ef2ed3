package sema

import (
	"polyc/internal/ast"
	"polyc/internal/types"
)

// passVisitor dispatches the current pass to node extensions.
type passVisitor struct {
	c *Checker
}

// scopeVisitor is the child visitor of a node that pushed a scope.
type scopeVisitor struct {
	*passVisitor
}

func (v scopeVisitor) Exit() { v.c.Ctx.Pop() }

func (v *passVisitor) Override(t *ast.Tree, id ast.NodeID) (ast.NodeID, bool) {
	c := v.c
	if c.err != nil {
		return id, true
	}
	n := t.Node(id)
	// класс, который не удалось объявить, дальше не проверяем
	if n.Kind == ast.KindClassDecl && c.pass != PassBuildTypes && n.Type == types.NoTypeID {
		return id, true
	}
	var (
		out     ast.NodeID
		handled bool
		err     error
	)
	switch c.pass {
	case PassBuildTypes:
		if o, ok := n.Ext.(TypeBuildOverrider); ok {
			out, handled, err = o.OverrideBuildTypes(c, id)
		}
	case PassDisambiguate:
		if o, ok := n.Ext.(DisambiguateOverrider); ok {
			out, handled, err = o.OverrideDisambiguate(c, id)
		}
	case PassTypeCheck:
		if o, ok := n.Ext.(TypeCheckOverrider); ok {
			out, handled, err = o.OverrideTypeCheck(c, id)
		}
	case PassExceptionCheck:
		if o, ok := n.Ext.(ExceptionCheckOverrider); ok {
			out, handled, err = o.OverrideExceptionCheck(c, id)
		}
	}
	if err != nil {
		c.fail(err, id)
		if !out.IsValid() {
			out = id
		}
		return out, true
	}
	return out, handled
}

func (v *passVisitor) Enter(t *ast.Tree, id ast.NodeID) ast.Visitor {
	n := t.Node(id)
	if se, ok := n.Ext.(ScopeExt); ok {
		if s := se.EnterScope(v.c, n); s != nil {
			v.c.Ctx.Push(s)
			return scopeVisitor{v}
		}
	}
	return v
}

func (v *passVisitor) Leave(t *ast.Tree, _, id ast.NodeID, _ ast.Visitor) ast.NodeID {
	c := v.c
	if c.err != nil {
		return id
	}
	if c.pass == PassExceptionCheck {
		c.SetThrown(id, c.unionThrown(t.Node(id).Kids))
	}

	n := t.Node(id)
	out := id
	if n.Caps.Has(c.pass.Cap()) {
		var err error
		out, err = c.runHook(n.Ext, id)
		if err != nil {
			c.fail(err, id)
			out = id
			if c.pass == PassTypeCheck && n.Kind.IsExpr() {
				out = c.SetType(id, c.Builtins().Unknown)
			}
		}
		if !out.IsValid() {
			out = id
		}
		if out != id && c.thrown != nil {
			c.SetThrown(out, c.thrown[id])
		}
	}

	if se, ok := t.Node(out).Ext.(ScopeExt); ok {
		se.AddDecls(c, t.Node(out))
	}
	return out
}

func (c *Checker) runHook(ext ast.Ext, id ast.NodeID) (ast.NodeID, error) {
	switch c.pass {
	case PassBuildTypes:
		if h, ok := ext.(TypeBuilderExt); ok {
			return h.BuildTypes(c, id)
		}
	case PassDisambiguate:
		if h, ok := ext.(DisambiguatorExt); ok {
			return h.Disambiguate(c, id)
		}
	case PassTypeCheck:
		if h, ok := ext.(TypeCheckerExt); ok {
			return h.TypeCheck(c, id)
		}
	case PassExceptionCheck:
		if h, ok := ext.(ExceptionCheckerExt); ok {
			return h.ExceptionCheck(c, id)
		}
	}
	return id, nil
}

func (c *Checker) unionThrown(ids []ast.NodeID) []types.TypeID {
	var out []types.TypeID
	for _, k := range ids {
		if k.IsValid() {
			out = addThrown(out, c.thrown[k]...)
		}
	}
	return out
}
