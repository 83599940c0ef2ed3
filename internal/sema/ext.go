package sema

import "polyc/internal/ast"

// Capability interfaces. A node's Ext implements the ones for the passes it
// takes part in; the pass looks them up with a type assertion. Language
// extensions wrap the base ext and call into it for the default behaviour.

type TypeBuilderExt interface {
	BuildTypes(c *Checker, id ast.NodeID) (ast.NodeID, error)
}

type DisambiguatorExt interface {
	Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error)
}

type TypeCheckerExt interface {
	TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error)
}

type ExceptionCheckerExt interface {
	ExceptionCheck(c *Checker, id ast.NodeID) (ast.NodeID, error)
}

type TranslatorExt interface {
	Translate(tr *Translator, id ast.NodeID)
}

// Overriders take over the traversal of their subtree for one pass. They
// return handled=false to fall back to the standard recursion.

type TypeBuildOverrider interface {
	OverrideBuildTypes(c *Checker, id ast.NodeID) (ast.NodeID, bool, error)
}

type DisambiguateOverrider interface {
	OverrideDisambiguate(c *Checker, id ast.NodeID) (ast.NodeID, bool, error)
}

type TypeCheckOverrider interface {
	OverrideTypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, bool, error)
}

type ExceptionCheckOverrider interface {
	OverrideExceptionCheck(c *Checker, id ast.NodeID) (ast.NodeID, bool, error)
}

// ScopeExt is implemented by nodes that open a scope or declare locals.
type ScopeExt interface {
	// EnterScope returns the scope the node's children live in, or nil.
	EnterScope(c *Checker, n *ast.Node) *Scope
	// AddDecls binds what the node declares, after the node itself is done.
	AddDecls(c *Checker, n *ast.Node)
}
