package testkit

import (
	"fmt"
	"strings"
	"testing"

	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/parser"
	"polyc/internal/sema"
	"polyc/internal/source"
	"polyc/internal/types"
)

// Unit is one compiled source in a Result.
type Unit struct {
	Path string
	File *source.File
	Tree *ast.Tree
	// Roots[i] is the root after the i-th pass; Roots[0] is the parsed tree.
	Roots []ast.NodeID
}

// Root returns the latest root.
func (u *Unit) Root() ast.NodeID { return u.Roots[len(u.Roots)-1] }

// Result holds everything a semantic test may want to look at.
type Result struct {
	Files *source.FileSet
	Sys   *types.System
	Bag   *diag.Bag
	Units []*Unit
	env   func(u *Unit) *sema.Env
}

var passes = []func(*sema.Env, *ast.Tree, ast.NodeID) (ast.NodeID, error){
	sema.BuildTypes,
	sema.Disambiguate,
	sema.TypeCheck,
	sema.ExceptionCheck,
}

// Compile parses every source with factory and runs the semantic passes in
// lockstep over all units. Sources are named U0.jl, U1.jl, ... Syntax errors
// fail the test.
func Compile(tb testing.TB, f ast.Factory, opts sema.Options, srcs ...string) *Result {
	tb.Helper()
	fs := source.NewFileSet()
	sys := types.NewSystem(types.NewInterner(), nil)
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	res := &Result{Files: fs, Sys: sys, Bag: bag}
	res.env = func(u *Unit) *sema.Env {
		return &sema.Env{Sys: sys, Reporter: rep, Factory: f, Path: u.Path, Options: opts}
	}

	for i, src := range srcs {
		path := fmt.Sprintf("U%d.jl", i)
		id := fs.AddVirtual(path, []byte(src))
		tree := ast.NewTree(id, 128)
		root := parser.ParseFile(fs.Get(id), ast.NewBuilder(tree, f), rep)
		res.Units = append(res.Units, &Unit{Path: path, File: fs.Get(id), Tree: tree, Roots: []ast.NodeID{root}})
	}
	if bag.HasErrors() {
		tb.Fatalf("syntax errors:\n%s", res.Dump())
	}

	for _, pass := range passes {
		for _, u := range res.Units {
			root, err := pass(res.env(u), u.Tree, u.Root())
			if err != nil {
				tb.Fatalf("%s: internal error: %v", u.Path, err)
			}
			u.Roots = append(u.Roots, root)
		}
	}
	return res
}

// Translate prints unit i.
func (r *Result) Translate(tb testing.TB, i int) string {
	tb.Helper()
	var sb strings.Builder
	u := r.Units[i]
	if err := sema.Translate(r.env(u), u.Tree, u.Root(), &sb); err != nil {
		tb.Fatalf("translate: %v", err)
	}
	return sb.String()
}

// Messages returns the diagnostic messages in report order.
func (r *Result) Messages() []string {
	out := make([]string, 0, r.Bag.Len())
	for _, d := range r.Bag.Items() {
		out = append(out, d.Message)
	}
	return out
}

// Has reports whether some diagnostic message contains substr.
func (r *Result) Has(substr string) bool {
	for _, m := range r.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// Dump renders all diagnostics, one per line, for failure messages.
func (r *Result) Dump() string {
	return diag.FormatShortDiagnostics(r.Bag.Items(), r.Files, true)
}

// ExpectClean fails the test when any diagnostic was reported.
func (r *Result) ExpectClean(tb testing.TB) {
	tb.Helper()
	if r.Bag.Len() != 0 {
		tb.Fatalf("unexpected diagnostics:\n%s", r.Dump())
	}
}

// Expect fails unless exactly one diagnostic was reported and its message is msg.
func (r *Result) Expect(tb testing.TB, msg string) {
	tb.Helper()
	if r.Bag.Len() != 1 || r.Messages()[0] != msg {
		tb.Fatalf("want exactly %q, got:\n%s", msg, r.Dump())
	}
}

// Find returns the first node of kind named name in unit i.
func (r *Result) Find(i int, kind ast.Kind, name string) *ast.Node {
	u := r.Units[i]
	var found *ast.Node
	ast.Walk(u.Tree, u.Root(), func(_ ast.NodeID, n *ast.Node) bool {
		if found == nil && n.Kind == kind && n.Name == name {
			found = n
		}
		return found == nil
	})
	return found
}
