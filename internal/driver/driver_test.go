package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"polyc/internal/classpath"
	"polyc/internal/diag"
	"polyc/internal/ext"
	"polyc/internal/project"
	"polyc/internal/sched"
)

type fixture struct {
	dir    string
	bag    *diag.Bag
	cfg    project.Config
	events []sched.Event
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	cfg := project.Default()
	cfg.Root = dir
	cfg.Compiler.SourcePath = []string{dir}
	return &fixture{dir: dir, bag: diag.NewBag(0), cfg: cfg}
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, filepath.FromSlash(name))
}

func (f *fixture) compile(t *testing.T, lang string, names ...string) (*Compiler, *Result, error) {
	t.Helper()
	c, err := New(Options{
		Config:   f.cfg,
		Lang:     lang,
		Sink:     diag.BagReporter{Bag: f.bag},
		Observer: func(ev sched.Event) { f.events = append(f.events, ev) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = f.path(n)
	}
	res, err := c.Compile(context.Background(), paths)
	return c, res, err
}

func (f *fixture) dump() string {
	var sb strings.Builder
	for _, d := range f.bag.Items() {
		sb.WriteString("  " + d.Code.String() + " " + d.Message + "\n")
	}
	return sb.String()
}

func (f *fixture) unit(t *testing.T, res *Result, name string) UnitResult {
	t.Helper()
	want := canonical(f.path(name))
	for _, u := range res.Units {
		if u.Path == want {
			return u
		}
	}
	t.Fatalf("no unit %s in %+v", name, res.Units)
	return UnitResult{}
}

// index of the first event matching kind/path/state, -1 if none
func (f *fixture) eventIndex(kind, name string, st sched.State) int {
	for i, ev := range f.events {
		if ev.Kind == kind && strings.HasSuffix(ev.Path, "/"+name) && ev.State == st {
			return i
		}
	}
	return -1
}

func TestCompileAcrossUnits(t *testing.T) {
	f := newFixture(t, map[string]string{
		"p/B.jl": `package p; public class B { public int count() { return 1; } }`,
		"q/A.jl": `package q; import p.B; class A { int f(B b) { return b.count(); } }`,
	})
	f.cfg.Compiler.OutputDir = filepath.Join(f.dir, "out")
	f.cfg.Compiler.SignatureDir = filepath.Join(f.dir, "sigs")

	_, res, err := f.compile(t, "", "q/A.jl", "p/B.jl")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !res.OK || res.Errors != 0 {
		t.Fatalf("compile failed:\n%s", f.dump())
	}
	a := f.unit(t, res, "q/A.jl")
	b := f.unit(t, res, "p/B.jl")
	for _, u := range []UnitResult{a, b} {
		if !u.OK || !u.Requested || !slices.Contains(u.Reached, KindTranslated) {
			t.Fatalf("unit %+v", u)
		}
	}
	// B is a dependency of A, so it is requested first
	if b.Job >= a.Job {
		t.Fatalf("job order: A=%d B=%d", a.Job, b.Job)
	}
	if built, dis := f.eventIndex(KindTypesBuilt, "B.jl", sched.StateSuccess), f.eventIndex(KindDisambiguated, "A.jl", sched.StateRunning); built < 0 || dis < 0 || built > dis {
		t.Fatalf("TypesBuilt(B)=%d must precede Disambiguated(A)=%d", built, dis)
	}

	if want := filepath.Join(f.dir, "out", "q", "A.java"); a.Output != want {
		t.Fatalf("output = %q, want %q", a.Output, want)
	}
	data, err := os.ReadFile(a.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "package q;") || !strings.Contains(string(data), "class A") {
		t.Fatalf("translated output:\n%s", data)
	}

	sig, err := classpath.Read(classpath.PathFor(f.cfg.Compiler.SignatureDir, "p.B"))
	if err != nil {
		t.Fatalf("read signature: %v", err)
	}
	if sig.Name != "p.B" || len(sig.Methods) == 0 {
		t.Fatalf("signature = %+v", sig)
	}
}

func TestDependencyFailureIsIsolated(t *testing.T) {
	f := newFixture(t, map[string]string{
		"p/B.jl": `package p; public class B { } class B { }`,
		"p/A.jl": `package p; class A { B b; }`,
		"p/C.jl": `package p; class C { int n; }`,
	})
	c, res, err := f.compile(t, "", "p/A.jl", "p/B.jl", "p/C.jl")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.OK {
		t.Fatalf("expected failure")
	}
	if f.bag.Len() != 1 || !strings.Contains(f.bag.Items()[0].Message, `Duplicate class "p.B"`) {
		t.Fatalf("want exactly the duplicate class error, got:\n%s", f.dump())
	}

	s := c.Scheduler()
	a := f.unit(t, res, "p/A.jl")
	tests := []struct {
		kind string
		want sched.State
	}{
		{KindTypesBuilt, sched.StateSuccess},
		{KindDisambiguated, sched.StateUnreachable},
		{KindTypeChecked, sched.StateUnreachable},
		{KindCompiled, sched.StateUnreachable},
	}
	for _, tt := range tests {
		if got := s.Goal(s.GoalFor(a.Job, tt.kind)).State; got != tt.want {
			t.Fatalf("%s(A) = %v, want %v", tt.kind, got, tt.want)
		}
	}
	b := f.unit(t, res, "p/B.jl")
	if got := s.Goal(s.GoalFor(b.Job, KindTypesBuilt)).State; got != sched.StateFailed {
		t.Fatalf("TypesBuilt(B) = %v, want Failed", got)
	}
	if cu := f.unit(t, res, "p/C.jl"); !cu.OK {
		t.Fatalf("independent unit failed: %+v", cu)
	}
}

func TestSourcePathDiscovery(t *testing.T) {
	f := newFixture(t, map[string]string{
		"p/B.jl": `package p; public class B { public int count() { return 1; } }`,
		"q/A.jl": `package q; class A { p.B b; int f() { return new p.B().count(); } }`,
	})
	_, res, err := f.compile(t, "", "q/A.jl")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !res.OK {
		t.Fatalf("compile failed:\n%s", f.dump())
	}
	b := f.unit(t, res, "p/B.jl")
	if b.Requested || !b.OK {
		t.Fatalf("discovered unit = %+v", b)
	}
	if len(res.Units) != 2 {
		t.Fatalf("units = %+v", res.Units)
	}
}

func TestQualifiedCallDiscovery(t *testing.T) {
	f := newFixture(t, map[string]string{
		"p/B.jl": `package p; public class B { public static int k() { return 1; } }`,
		"q/A.jl": `package q; class A { int f() { return p.B.k(); } }`,
	})
	_, res, err := f.compile(t, "", "q/A.jl")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !res.OK {
		t.Fatalf("compile failed:\n%s", f.dump())
	}
	if b := f.unit(t, res, "p/B.jl"); b.Requested || !b.OK {
		t.Fatalf("discovered unit = %+v", b)
	}
}

func TestMissingSourceFile(t *testing.T) {
	f := newFixture(t, map[string]string{"A.jl": `class A { }`})
	_, res, err := f.compile(t, "", "A.jl", "Nope.jl")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.OK {
		t.Fatalf("expected failure")
	}
	if f.bag.Len() != 1 || f.bag.Items()[0].Code != diag.ProjMissingSource {
		t.Fatalf("diagnostics:\n%s", f.dump())
	}
	if a := f.unit(t, res, "A.jl"); !a.OK {
		t.Fatalf("readable unit failed: %+v", a)
	}
}

func TestSyntaxErrorFailsParsed(t *testing.T) {
	f := newFixture(t, map[string]string{"A.jl": `class A { int x = ; }`})
	c, res, err := f.compile(t, "", "A.jl")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	a := f.unit(t, res, "A.jl")
	s := c.Scheduler()
	if got := s.Goal(s.GoalFor(a.Job, KindParsed)).State; got != sched.StateFailed || res.OK {
		t.Fatalf("Parsed = %v ok=%v", got, res.OK)
	}
	if !f.bag.HasErrors() {
		t.Fatalf("no syntax error reported")
	}
}

func TestErrorLimitAborts(t *testing.T) {
	f := newFixture(t, map[string]string{
		"A.jl": `class A { void m(); }`,
		"B.jl": `class B { void m(); }`,
	})
	f.cfg.Compiler.ErrorLimit = 1
	_, res, err := f.compile(t, "", "A.jl", "B.jl")
	if !errors.Is(err, sched.ErrErrorLimit) {
		t.Fatalf("err = %v, want error limit", err)
	}
	if res == nil || res.OK || res.Errors != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestLanguageSelection(t *testing.T) {
	src := map[string]string{"A.jl": `class A { int f(Integer a) { return a + 1; } }`}

	f := newFixture(t, src)
	if _, res, err := f.compile(t, "jl5", "A.jl"); err != nil || !res.OK {
		t.Fatalf("jl5: err=%v\n%s", err, f.dump())
	}

	f = newFixture(t, src)
	if _, res, err := f.compile(t, "", "A.jl"); err != nil || res.OK {
		t.Fatalf("jl accepted boxed operands: err=%v", err)
	}

	_, err := New(Options{Config: project.Default(), Lang: "jl9"})
	if !errors.Is(err, ext.ErrUnknownLanguage) {
		t.Fatalf("err = %v, want unknown language", err)
	}
}

func TestUnitMeta(t *testing.T) {
	f := newFixture(t, map[string]string{
		"A.jl": `package p; import q.R; import s.*; class A extends Base { R r; int n; int f() { return t.U.k(); } } interface I { }`,
	})
	c, err := New(Options{Config: f.cfg})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	units, err := Prefetch(context.Background(), c.Files(), c.Language().Factory, []string{canonical(f.path("A.jl"))}, 1)
	if err != nil || units[0].Err != nil {
		t.Fatalf("Prefetch: %v %v", err, units[0].Err)
	}
	meta := unitMeta(units[0].Path, units[0].Tree, units[0].Root)
	if meta.Package != "p" || !slices.Equal(meta.Classes, []string{"p.A", "p.I"}) {
		t.Fatalf("meta = %+v", meta)
	}
	if len(meta.Imports) != 2 || meta.Imports[1].Name != "s.*" {
		t.Fatalf("imports = %+v", meta.Imports)
	}
	for _, ref := range []string{"Base", "R", "int", "t", "t.U"} {
		if !slices.Contains(meta.Refs, ref) {
			t.Fatalf("refs %v lack %q", meta.Refs, ref)
		}
	}
}
