package sema

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/source"
	"polyc/internal/types"
)

// Pass names one traversal of the rewrite pipeline.
type Pass uint8

const (
	PassBuildTypes Pass = iota + 1
	PassDisambiguate
	PassTypeCheck
	PassExceptionCheck
	PassTranslate
)

func (p Pass) String() string {
	switch p {
	case PassBuildTypes:
		return "buildTypes"
	case PassDisambiguate:
		return "disambiguate"
	case PassTypeCheck:
		return "typeCheck"
	case PassExceptionCheck:
		return "exceptionCheck"
	case PassTranslate:
		return "translate"
	}
	return fmt.Sprintf("Pass(%d)", p)
}

// Cap is the node capability the pass requires.
func (p Pass) Cap() ast.Caps {
	switch p {
	case PassBuildTypes:
		return ast.CapBuildTypes
	case PassDisambiguate:
		return ast.CapDisambiguate
	case PassTypeCheck:
		return ast.CapTypeCheck
	case PassExceptionCheck:
		return ast.CapExceptionCheck
	case PassTranslate:
		return ast.CapTranslate
	}
	return ast.CapNone
}

// Options are language-wide switches that are not tied to one node kind.
type Options struct {
	// Boxing enables boxing and unboxing in assignment conversion.
	Boxing bool
}

// Env is what a pass needs from the driver for one compilation unit.
type Env struct {
	Sys      *types.System
	Reporter diag.Reporter
	Factory  ast.Factory
	Path     string
	Options  Options
}

// Checker is the state of one pass over one tree. Extension hooks receive it.
type Checker struct {
	Sys     *types.System
	Tree    *ast.Tree
	Ctx     *Context
	Options Options

	env      *Env
	pass     Pass
	pkg      string
	imports  map[string]string // simple name -> qualified name
	onDemand []string
	visitor  *passVisitor

	thrown  map[ast.NodeID][]types.TypeID
	rethrow map[*types.LocalInstance][]types.TypeID

	errors int
	err    error
}

func newChecker(env *Env, tree *ast.Tree, root ast.NodeID, pass Pass) *Checker {
	c := &Checker{
		Sys:     env.Sys,
		Tree:    tree,
		Ctx:     NewContext(),
		Options: env.Options,
		env:     env,
		pass:    pass,
		imports: make(map[string]string),
	}
	c.visitor = &passVisitor{c: c}
	if pass == PassExceptionCheck {
		c.thrown = make(map[ast.NodeID][]types.TypeID)
		c.rethrow = make(map[*types.LocalInstance][]types.TypeID)
	}
	if root.IsValid() {
		if file := tree.Node(root); file.Kind == ast.KindSourceFile {
			c.pkg = file.Name
			for _, imp := range tree.Node(file.Kid(0)).Kids {
				name := tree.Node(imp).Name
				if pkg, ok := strings.CutSuffix(name, ".*"); ok {
					c.onDemand = append(c.onDemand, pkg)
					continue
				}
				_, simple := types.SplitName(name)
				c.imports[simple] = name
			}
		}
	}
	return c
}

// BuildTypes declares the unit's classes and creates placeholder member facts.
func BuildTypes(env *Env, tree *ast.Tree, root ast.NodeID) (ast.NodeID, error) {
	return run(env, tree, root, PassBuildTypes)
}

// Disambiguate resolves type names, class headers, member signatures and locals.
func Disambiguate(env *Env, tree *ast.Tree, root ast.NodeID) (ast.NodeID, error) {
	return run(env, tree, root, PassDisambiguate)
}

// TypeCheck assigns expression types and runs declaration checks.
func TypeCheck(env *Env, tree *ast.Tree, root ast.NodeID) (ast.NodeID, error) {
	return run(env, tree, root, PassTypeCheck)
}

// ExceptionCheck verifies that checked exceptions are caught or declared.
func ExceptionCheck(env *Env, tree *ast.Tree, root ast.NodeID) (ast.NodeID, error) {
	return run(env, tree, root, PassExceptionCheck)
}

func run(env *Env, tree *ast.Tree, root ast.NodeID, pass Pass) (ast.NodeID, error) {
	c := newChecker(env, tree, root, pass)
	out := ast.Visit(tree, c.visitor, root)
	if c.err == nil && c.Ctx.Depth() != 0 {
		c.err = fmt.Errorf("%s: %d scopes left open", pass, c.Ctx.Depth())
	}
	return out, c.err
}

func (c *Checker) Pass() Pass { return c.pass }

// Package is the package of the compilation unit, "" for the default package.
func (c *Checker) Package() string { return c.pkg }

func (c *Checker) Node(id ast.NodeID) *ast.Node { return c.Tree.Node(id) }

func (c *Checker) Builtins() types.Builtins { return c.Sys.Builtins() }

func (c *Checker) TypeString(t types.TypeID) string { return c.Sys.Interner().TypeString(t) }

// Errors is the number of diagnostics reported by this pass.
func (c *Checker) Errors() int { return c.errors }

// Report emits an error diagnostic without interrupting the hook.
func (c *Checker) Report(code diag.Code, sp source.Span, msg string) {
	c.ReportFix(code, sp, msg, nil)
}

// ReportFix is Report with suggested fixes.
func (c *Checker) ReportFix(code diag.Code, sp source.Span, msg string, fixes []diag.Fix) {
	c.errors++
	c.env.Reporter.Report(code, diag.SevError, sp, msg, nil, fixes)
}

// fail turns a hook error into a diagnostic or records it as internal.
func (c *Checker) fail(err error, id ast.NodeID) {
	var se *SemanticError
	if errors.As(err, &se) {
		sp := se.Span
		if sp == (source.Span{}) && id.IsValid() {
			sp = c.Tree.Node(id).Span
		}
		code := se.Code
		if code == diag.UnknownCode {
			code = diag.SemaError
		}
		c.ReportFix(code, sp, se.Msg, se.Fixes)
		return
	}
	if c.err == nil {
		c.err = fmt.Errorf("%s: %w", c.pass, err)
	}
}

// Visit runs the current pass over the subtree at id. Overrides use it.
func (c *Checker) Visit(id ast.NodeID) ast.NodeID {
	return ast.Visit(c.Tree, c.visitor, id)
}

// VisitKids runs the current pass over the children of id and rebuilds it if needed.
func (c *Checker) VisitKids(id ast.NodeID) ast.NodeID {
	return ast.VisitKids(c.Tree, c.visitor, id)
}

// SetType rebinds the resolved type of id.
func (c *Checker) SetType(id ast.NodeID, t types.TypeID) ast.NodeID {
	return c.Tree.Update(id, func(n *ast.Node) { n.Type = t })
}

// Rewrite changes id into a node of kind. A kind change picks up the
// language's ext and default capabilities for the new kind.
func (c *Checker) Rewrite(id ast.NodeID, kind ast.Kind, edit func(n *ast.Node)) ast.NodeID {
	return c.Tree.Update(id, func(n *ast.Node) {
		if n.Kind != kind {
			n.Kind = kind
			n.Ext = c.env.Factory.Ext(kind)
			n.Caps = ast.DefaultCaps(kind)
		}
		if edit != nil {
			edit(n)
		}
	})
}

// IsAssignable is assignment conversion for the current language.
func (c *Checker) IsAssignable(from, to types.TypeID) bool {
	if c.Options.Boxing {
		return c.Sys.IsAssignable(from, to)
	}
	return c.Sys.IsImplicitCastValid(from, to)
}

// Thrown returns the exceptions the subtree at id may throw.
func (c *Checker) Thrown(id ast.NodeID) []types.TypeID { return c.thrown[id] }

// SetThrown replaces the thrown set of id.
func (c *Checker) SetThrown(id ast.NodeID, ts []types.TypeID) {
	if c.thrown == nil {
		return
	}
	if len(ts) == 0 {
		delete(c.thrown, id)
		return
	}
	c.thrown[id] = ts
}

// Rethrow returns the exceptions the try block can throw into the catch
// whose formal is li.
func (c *Checker) Rethrow(li *types.LocalInstance) ([]types.TypeID, bool) {
	ts, ok := c.rethrow[li]
	return ts, ok
}

func (c *Checker) setRethrow(li *types.LocalInstance, ts []types.TypeID) {
	if c.rethrow != nil && li != nil {
		c.rethrow[li] = ts
	}
}

// addThrown appends ts to set without duplicates, keeping first-seen order.
func addThrown(set []types.TypeID, ts ...types.TypeID) []types.TypeID {
	for _, t := range ts {
		if !slices.Contains(set, t) {
			set = append(set, t)
		}
	}
	return set
}
