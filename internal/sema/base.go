package sema

import (
	"polyc/internal/ast"
)

// Ext is what every behaviour object provides regardless of node kind.
type Ext interface {
	ast.Ext
	ScopeExt
	TranslatorExt
}

// baseExt is embedded by all default behaviours of the base language.
type baseExt struct{}

func (baseExt) Lang() string { return "jl" }

func (baseExt) EnterScope(c *Checker, n *ast.Node) *Scope {
	switch n.Kind {
	case ast.KindClassDecl:
		return ClassScope(n.Type)
	case ast.KindMethodDecl:
		return CodeScope(n.Method(), n.Flags.IsStatic())
	case ast.KindFieldDecl:
		return CodeScope(nil, n.Flags.IsStatic() || c.inInterface())
	case ast.KindBlock, ast.KindCatch:
		return BlockScope()
	}
	return nil
}

func (baseExt) AddDecls(c *Checker, n *ast.Node) {
	switch n.Kind {
	case ast.KindFormal, ast.KindLocalDecl:
		c.Ctx.AddLocal(n.LocalFact())
	}
}

func (baseExt) Translate(tr *Translator, id ast.NodeID) {
	tr.printDefault(id)
}

type (
	sourceFileExt struct{ baseExt }
	importExt     struct{ baseExt }
	classDeclExt  struct{ baseExt }
	fieldDeclExt  struct{ baseExt }
	methodDeclExt struct{ baseExt }
	formalExt     struct{ baseExt }
	blockExt      struct{ baseExt }
	localDeclExt  struct{ baseExt }
	exprStmtExt   struct{ baseExt }
	returnExt     struct{ baseExt }
	throwExt      struct{ baseExt }
	ifExt         struct{ baseExt }
	whileExt      struct{ baseExt }
	tryExt        struct{ baseExt }
	catchExt      struct{ baseExt }
	emptyExt      struct{ baseExt }
	listExt       struct{ baseExt }
	typeNodeExt   struct{ baseExt }
	litExt        struct{ baseExt }
	nameExt       struct{ baseExt }
	localExt      struct{ baseExt }
	fieldExt      struct{ baseExt }
	binaryExt     struct{ baseExt }
	unaryExt      struct{ baseExt }
	assignExt     struct{ baseExt }
	callExt       struct{ baseExt }
	newExt        struct{ baseExt }
	thisExt       struct{ baseExt }
)

// BaseExt returns the default behaviour for nodes of kind.
func BaseExt(kind ast.Kind) Ext {
	switch kind {
	case ast.KindSourceFile:
		return sourceFileExt{}
	case ast.KindImport:
		return importExt{}
	case ast.KindClassDecl:
		return classDeclExt{}
	case ast.KindFieldDecl:
		return fieldDeclExt{}
	case ast.KindMethodDecl:
		return methodDeclExt{}
	case ast.KindFormal:
		return formalExt{}
	case ast.KindBlock:
		return blockExt{}
	case ast.KindLocalDecl:
		return localDeclExt{}
	case ast.KindExprStmt:
		return exprStmtExt{}
	case ast.KindReturn:
		return returnExt{}
	case ast.KindThrow:
		return throwExt{}
	case ast.KindIf:
		return ifExt{}
	case ast.KindWhile:
		return whileExt{}
	case ast.KindTry:
		return tryExt{}
	case ast.KindCatch:
		return catchExt{}
	case ast.KindEmpty:
		return emptyExt{}
	case ast.KindList:
		return listExt{}
	case ast.KindTypeNode:
		return typeNodeExt{}
	case ast.KindLit:
		return litExt{}
	case ast.KindName:
		return nameExt{}
	case ast.KindLocal:
		return localExt{}
	case ast.KindField:
		return fieldExt{}
	case ast.KindBinary:
		return binaryExt{}
	case ast.KindUnary:
		return unaryExt{}
	case ast.KindAssign:
		return assignExt{}
	case ast.KindCall:
		return callExt{}
	case ast.KindNew:
		return newExt{}
	case ast.KindThis:
		return thisExt{}
	}
	return baseExt{}
}

// Wrapper forwards every hook to Base. Language extensions embed it and
// redefine only the hooks they change; calling the embedded method is the
// "super" call.
type Wrapper struct {
	Base Ext
}

func (w Wrapper) Lang() string { return w.Base.Lang() }

func (w Wrapper) EnterScope(c *Checker, n *ast.Node) *Scope { return w.Base.EnterScope(c, n) }

func (w Wrapper) AddDecls(c *Checker, n *ast.Node) { w.Base.AddDecls(c, n) }

func (w Wrapper) Translate(tr *Translator, id ast.NodeID) { w.Base.Translate(tr, id) }

func (w Wrapper) BuildTypes(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	if h, ok := w.Base.(TypeBuilderExt); ok {
		return h.BuildTypes(c, id)
	}
	return id, nil
}

func (w Wrapper) Disambiguate(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	if h, ok := w.Base.(DisambiguatorExt); ok {
		return h.Disambiguate(c, id)
	}
	return id, nil
}

func (w Wrapper) TypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	if h, ok := w.Base.(TypeCheckerExt); ok {
		return h.TypeCheck(c, id)
	}
	return id, nil
}

func (w Wrapper) ExceptionCheck(c *Checker, id ast.NodeID) (ast.NodeID, error) {
	if h, ok := w.Base.(ExceptionCheckerExt); ok {
		return h.ExceptionCheck(c, id)
	}
	return id, nil
}

func (w Wrapper) OverrideBuildTypes(c *Checker, id ast.NodeID) (ast.NodeID, bool, error) {
	if o, ok := w.Base.(TypeBuildOverrider); ok {
		return o.OverrideBuildTypes(c, id)
	}
	return id, false, nil
}

func (w Wrapper) OverrideDisambiguate(c *Checker, id ast.NodeID) (ast.NodeID, bool, error) {
	if o, ok := w.Base.(DisambiguateOverrider); ok {
		return o.OverrideDisambiguate(c, id)
	}
	return id, false, nil
}

func (w Wrapper) OverrideTypeCheck(c *Checker, id ast.NodeID) (ast.NodeID, bool, error) {
	if o, ok := w.Base.(TypeCheckOverrider); ok {
		return o.OverrideTypeCheck(c, id)
	}
	return id, false, nil
}

func (w Wrapper) OverrideExceptionCheck(c *Checker, id ast.NodeID) (ast.NodeID, bool, error) {
	if o, ok := w.Base.(ExceptionCheckOverrider); ok {
		return o.OverrideExceptionCheck(c, id)
	}
	return id, false, nil
}

// BaseFactory hands out the base language's behaviours.
type BaseFactory struct{}

func (BaseFactory) Lang() string { return "jl" }

func (BaseFactory) Ext(kind ast.Kind) ast.Ext { return BaseExt(kind) }
