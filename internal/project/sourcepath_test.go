package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSourcePath(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	for _, p := range []string{
		filepath.Join(rootA, "p", "A.jl"),
		filepath.Join(rootB, "p", "A.jl"),
		filepath.Join(rootB, "q", "r", "B.jl"),
		filepath.Join(rootB, "Top.jl"),
	} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("class X {}"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	sp := SourcePath{Roots: []string{rootA, rootB}, Ext: ".jl"}

	find := []struct {
		class string
		want  string
	}{
		{"p.A", filepath.Join(rootA, "p", "A.jl")},
		{"q.r.B", filepath.Join(rootB, "q", "r", "B.jl")},
		{"Top", filepath.Join(rootB, "Top.jl")},
		{"q.Missing", ""},
		{"bad..name", ""},
	}
	for _, tt := range find {
		got, ok := sp.Find(tt.class)
		if ok != (tt.want != "") || got != tt.want {
			t.Fatalf("Find(%q) = %q,%v, want %q", tt.class, got, ok, tt.want)
		}
	}

	names := []struct {
		path string
		want string
	}{
		{filepath.Join(rootB, "q", "r", "B.jl"), "q.r.B"},
		{filepath.Join(rootA, "p", "A.jl"), "p.A"},
		{filepath.Join(rootA, "p", "A.txt"), ""},
		{filepath.Join(rootA, "p", "1bad.jl"), ""},
		{"/elsewhere/X.jl", ""},
	}
	for _, tt := range names {
		got, ok := sp.ClassName(tt.path)
		if ok != (tt.want != "") || got != tt.want {
			t.Fatalf("ClassName(%q) = %q,%v, want %q", tt.path, got, ok, tt.want)
		}
	}

	if err := CheckRoot(rootA); err != nil {
		t.Fatalf("CheckRoot: %v", err)
	}
	if err := CheckRoot(filepath.Join(rootB, "Top.jl")); err == nil {
		t.Fatalf("CheckRoot accepted a file")
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		meta UnitMeta
		ref  string
		want []string
	}{
		{"qualified", UnitMeta{Package: "p"}, "q.B", []string{"q.B"}},
		{"default package", UnitMeta{}, "A", []string{"A"}},
		{"own package first", UnitMeta{Package: "p", Imports: []ImportMeta{{Name: "q.*"}}}, "A", []string{"p.A", "q.A"}},
		{"single import wins", UnitMeta{Package: "p", Imports: []ImportMeta{{Name: "q.*"}, {Name: "r.A"}}}, "A", []string{"r.A"}},
	}
	for _, tt := range tests {
		got := tt.meta.Candidates(tt.ref)
		if len(got) != len(tt.want) {
			t.Fatalf("%s: Candidates = %v, want %v", tt.name, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%s: Candidates = %v, want %v", tt.name, got, tt.want)
			}
		}
	}
}

func TestIsValidQualifiedName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"p.q.A", true},
		{"_x$1", true},
		{"", false},
		{"p..A", false},
		{"1p", false},
		{"p.", false},
	}
	for _, tt := range tests {
		if got := IsValidQualifiedName(tt.in); got != tt.want {
			t.Fatalf("IsValidQualifiedName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
