package parser

import (
	"strings"
	"testing"

	"polyc/internal/ast"
	"polyc/internal/diag"
	"polyc/internal/source"
	"polyc/internal/types"
)

type testExt struct{}

func (testExt) Lang() string { return "test" }

type testFactory struct{}

func (testFactory) Lang() string          { return "test" }
func (testFactory) Ext(ast.Kind) ast.Ext { return testExt{} }

func parse(t *testing.T, src string) (*ast.Tree, ast.NodeID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("Test.jl", []byte(src))
	tree := ast.NewTree(id, 64)
	bag := diag.NewBag(0)
	root := ParseFile(fs.Get(id), ast.NewBuilder(tree, testFactory{}), diag.BagReporter{Bag: bag})
	return tree, root, bag
}

func mustParse(t *testing.T, src string) (*ast.Tree, ast.NodeID) {
	t.Helper()
	tree, root, bag := parse(t, src)
	if bag.Len() != 0 {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code, d.Message)
		}
		t.Fatalf("unexpected diagnostics: %d", bag.Len())
	}
	return tree, root
}

// members returns the member nodes of the first class in the file.
func members(t *testing.T, tree *ast.Tree, root ast.NodeID) []ast.NodeID {
	t.Helper()
	decls := tree.Node(tree.Node(root).Kid(1))
	if len(decls.Kids) == 0 {
		t.Fatalf("no declarations")
	}
	cls := tree.Expect(decls.Kids[0], ast.KindClassDecl)
	return tree.Node(cls.Kid(2)).Kids
}

func TestParseHeader(t *testing.T) {
	tree, root := mustParse(t, `
package p.q;
import java.util.List;
import p.r.*;
public abstract class A extends p.B implements I, J { }
interface I extends K, L { }
`)
	file := tree.Expect(root, ast.KindSourceFile)
	if file.Name != "p.q" {
		t.Fatalf("package = %q", file.Name)
	}
	imports := tree.Node(file.Kid(0)).Kids
	if len(imports) != 2 || tree.Node(imports[0]).Name != "java.util.List" || tree.Node(imports[1]).Name != "p.r.*" {
		t.Fatalf("bad imports")
	}
	decls := tree.Node(file.Kid(1)).Kids
	if len(decls) != 2 {
		t.Fatalf("want 2 decls, got %d", len(decls))
	}
	a := tree.Node(decls[0])
	if a.Name != "A" || !a.Flags.Has(types.FlagPublic|types.FlagAbstract) {
		t.Fatalf("class A: %q %s", a.Name, a.Flags)
	}
	if tree.Node(a.Kid(0)).Name != "p.B" {
		t.Fatalf("super = %q", tree.Node(a.Kid(0)).Name)
	}
	if n := len(tree.Node(a.Kid(1)).Kids); n != 2 {
		t.Fatalf("A implements %d types", n)
	}
	i := tree.Node(decls[1])
	if !i.Flags.Has(types.FlagInterface) || i.Kid(0) != ast.NoNodeID {
		t.Fatalf("interface I parsed as %s", i.Flags)
	}
	if n := len(tree.Node(i.Kid(1)).Kids); n != 2 {
		t.Fatalf("I extends %d types", n)
	}
}

func TestParseMembers(t *testing.T) {
	tree, root := mustParse(t, `
class C {
	private static final int a = 1, b;
	abstract void m(int x, final String s) throws E, F;
	native int n();
	String k() { return "k"; }
}`)
	ms := members(t, tree, root)
	if len(ms) != 5 {
		t.Fatalf("want 5 members, got %d", len(ms))
	}
	a := tree.Expect(ms[0], ast.KindFieldDecl)
	b := tree.Expect(ms[1], ast.KindFieldDecl)
	if a.Name != "a" || b.Name != "b" || a.Kid(1) == ast.NoNodeID || b.Kid(1) != ast.NoNodeID {
		t.Fatalf("bad field declarators")
	}
	if !b.Flags.Has(types.FlagPrivate | types.FlagStatic | types.FlagFinal) {
		t.Fatalf("b flags = %s", b.Flags)
	}
	m := tree.Expect(ms[2], ast.KindMethodDecl)
	if m.Kid(3) != ast.NoNodeID {
		t.Fatalf("abstract method has a body")
	}
	formals := tree.Node(m.Kid(1)).Kids
	if len(formals) != 2 || !tree.Node(formals[1]).Flags.Has(types.FlagFinal) {
		t.Fatalf("bad formals")
	}
	if n := len(tree.Node(m.Kid(2)).Kids); n != 2 {
		t.Fatalf("throws list has %d entries", n)
	}
	k := tree.Expect(ms[4], ast.KindMethodDecl)
	body := tree.Expect(k.Kid(3), ast.KindBlock)
	ret := tree.Expect(body.Kids[0], ast.KindReturn)
	lit := tree.Expect(ret.Kid(0), ast.KindLit)
	if lit.Lit.Kind != ast.LitString || lit.Lit.Value != "k" {
		t.Fatalf("return value %v", lit.Lit)
	}
}

func TestParseStatements(t *testing.T) {
	tree, root := mustParse(t, `
class C {
	void m() {
		int x = 1;
		p.Q q = null;
		x = x + 1;
		if (x > 0) f(); else { }
		while (x != 0) x = x - 1;
		try { throw new E("a"); } catch (E e) { } finally { ; }
		q.r.s();
	}
}`)
	m := tree.Node(members(t, tree, root)[0])
	stmts := tree.Node(m.Kid(3)).Kids
	want := []ast.Kind{
		ast.KindLocalDecl, ast.KindLocalDecl, ast.KindExprStmt, ast.KindIf,
		ast.KindWhile, ast.KindTry, ast.KindExprStmt,
	}
	if len(stmts) != len(want) {
		t.Fatalf("want %d statements, got %d", len(want), len(stmts))
	}
	for i, k := range want {
		if got := tree.Node(stmts[i]).Kind; got != k {
			t.Fatalf("stmt %d: want %s, got %s", i, k, got)
		}
	}
	q := tree.Node(stmts[1])
	if tree.Node(q.Kid(0)).Name != "p.Q" {
		t.Fatalf("qualified local type = %q", tree.Node(q.Kid(0)).Name)
	}
	try := tree.Node(stmts[5])
	if len(tree.Node(try.Kid(1)).Kids) != 1 || try.Kid(2) == ast.NoNodeID {
		t.Fatalf("bad try")
	}
	call := tree.Expect(tree.Node(stmts[6]).Kid(0), ast.KindCall)
	recv := tree.Expect(call.Kid(0), ast.KindField)
	if call.Name != "s" || recv.Name != "r" {
		t.Fatalf("call chain parsed as %s on %s", call.Name, recv.Name)
	}
}

func TestParsePrecedence(t *testing.T) {
	tree, root := mustParse(t, `class C { int f = 1 + 2 * 3 << 1 == 0 || a && !b; }`)
	f := tree.Node(members(t, tree, root)[0])
	var render func(id ast.NodeID) string
	render = func(id ast.NodeID) string {
		n := tree.Node(id)
		switch n.Kind {
		case ast.KindBinary:
			return "(" + render(n.Kid(0)) + " " + n.Op.String() + " " + render(n.Kid(1)) + ")"
		case ast.KindUnary:
			return n.Op.String() + render(n.Kid(0))
		case ast.KindLit:
			return n.Lit.String()
		}
		return n.Name
	}
	got := render(f.Kid(1))
	want := "((((1 + (2 * 3)) << 1) == 0) || (a && !b))"
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.LitKind
		val  any
	}{
		{"42", ast.LitInt, int64(42)},
		{"0x7fffffff", ast.LitInt, int64(2147483647)},
		{"0xffffffff", ast.LitInt, int64(-1)},
		{"-2147483648", ast.LitInt, int64(-2147483648)},
		{"017", ast.LitInt, int64(15)},
		{"10L", ast.LitLong, int64(10)},
		{"-9223372036854775808L", ast.LitLong, int64(-9223372036854775808)},
		{"1.5", ast.LitDouble, 1.5},
		{"'a'", ast.LitChar, 'a'},
		{`'\n'`, ast.LitChar, '\n'},
		{`"a\tbA\101"`, ast.LitString, "a\tbAA"},
		{"true", ast.LitBool, true},
		{"null", ast.LitNull, nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, root := mustParse(t, "class C { Object f = "+tt.src+"; }")
			f := tree.Node(members(t, tree, root)[0])
			lit := tree.Expect(f.Kid(1), ast.KindLit).Lit
			if lit.Kind != tt.kind || lit.Value != tt.val {
				t.Fatalf("want %v (%d), got %v (%d)", tt.val, tt.kind, lit.Value, lit.Kind)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing semicolon", "class C { int x }", diag.SynExpectSemicolon},
		{"int too large", "class C { int x = 2147483648; }", diag.LexBadNumber},
		{"not a statement", "class C { void m() { x + 1; } }", diag.SynExpectExpression},
		{"repeated modifier", "class C { public public void m(); }", diag.SynModifierRepeated},
		{"top level junk", "int x;", diag.SynUnexpectedTopLevel},
		{"bare try", "class C { void m() { try { } } }", diag.SynUnexpectedToken},
		{"constructor", "class C { C() { } }", diag.SynExpectIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, bag := parse(t, tt.src)
			found := false
			for _, d := range bag.Items() {
				if d.Code == tt.code {
					found = true
				}
			}
			if !found {
				var got []string
				for _, d := range bag.Items() {
					got = append(got, d.Code.String()+" "+d.Message)
				}
				t.Fatalf("want %s, got [%s]", tt.code, strings.Join(got, "; "))
			}
		})
	}
}

func TestParseRecoversAfterError(t *testing.T) {
	tree, root, bag := parse(t, `
class C {
	void a() { int x = ; int y = 2; }
	void b() { }
}`)
	if !bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	ms := members(t, tree, root)
	if len(ms) != 2 {
		t.Fatalf("want both methods after recovery, got %d", len(ms))
	}
	body := tree.Node(tree.Node(ms[0]).Kid(3))
	if len(body.Kids) != 1 || tree.Node(body.Kids[0]).Name != "y" {
		t.Fatalf("statement after the error was not recovered")
	}
}
