package dag

import (
	"slices"
	"testing"

	"polyc/internal/project"
)

func idsToPaths(idx UnitIndex, ids []UnitID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToPath[int(id)]
	}
	return out
}

func batchesToPaths(idx UnitIndex, batches [][]UnitID) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		out[i] = idsToPaths(idx, batch)
	}
	return out
}

func TestBuildIndexSortsPathsAndMapsClasses(t *testing.T) {
	metas := []project.UnitMeta{
		{Path: "q/B.jl", Package: "q", Classes: []string{"q.B", "q.Helper"}},
		{Path: "p/A.jl", Package: "p", Classes: []string{"p.A"}},
		{Path: "z/Dup.jl", Package: "q", Classes: []string{"q.B"}},
	}
	idx := BuildIndex(metas)

	want := []string{"p/A.jl", "q/B.jl", "z/Dup.jl"}
	if !slices.Equal(idx.IDToPath, want) {
		t.Fatalf("IDToPath = %v, want %v", idx.IDToPath, want)
	}
	tests := []struct {
		class string
		path  string
	}{
		{"p.A", "p/A.jl"},
		{"q.B", "q/B.jl"},
		{"q.Helper", "q/B.jl"},
	}
	for _, tt := range tests {
		id, ok := idx.ClassToID[tt.class]
		if !ok || idx.IDToPath[id] != tt.path {
			t.Fatalf("ClassToID[%q] = %v,%v, want %q", tt.class, id, ok, tt.path)
		}
	}
}

func TestLookupUsesPackageAndImports(t *testing.T) {
	metas := []project.UnitMeta{
		{Path: "a.jl", Package: "p", Classes: []string{"p.A"}},
		{Path: "b.jl", Package: "q", Classes: []string{"q.B"}},
		{Path: "c.jl", Package: "r", Classes: []string{"r.C"}},
	}
	idx := BuildIndex(metas)
	user := project.UnitMeta{
		Package: "p",
		Imports: []project.ImportMeta{{Name: "q.*"}, {Name: "r.C"}},
	}
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"A", "a.jl", true},
		{"B", "b.jl", true},
		{"C", "c.jl", true},
		{"q.B", "b.jl", true},
		{"Missing", "", false},
	}
	for _, tt := range tests {
		id, ok := idx.Lookup(&user, tt.name)
		if ok != tt.ok {
			t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
		if ok && idx.IDToPath[id] != tt.want {
			t.Fatalf("Lookup(%q) = %q, want %q", tt.name, idx.IDToPath[id], tt.want)
		}
	}
}

func TestToposortDependenciesFirst(t *testing.T) {
	metas := []project.UnitMeta{
		{Path: "app.jl", Classes: []string{"App"}, Refs: []string{"Core", "Util", "App"}},
		{Path: "core.jl", Classes: []string{"Core"}, Refs: []string{"Util", "Unknown"}},
		{Path: "util.jl", Classes: []string{"Util"}},
		{Path: "side.jl", Classes: []string{"Side"}},
	}
	idx := BuildIndex(metas)
	g := BuildGraph(idx, metas)

	app := idx.PathToID["app.jl"]
	if got := idsToPaths(idx, g.Deps[app]); !slices.Equal(got, []string{"core.jl", "util.jl"}) {
		t.Fatalf("deps(app) = %v", got)
	}

	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", idsToPaths(idx, topo.Cycles))
	}
	want := [][]string{{"side.jl", "util.jl"}, {"core.jl"}, {"app.jl"}}
	got := batchesToPaths(idx, topo.Batches)
	if len(got) != len(want) {
		t.Fatalf("batches = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Fatalf("batch %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestToposortMutualReferencesAreKept(t *testing.T) {
	metas := []project.UnitMeta{
		{Path: "a.jl", Classes: []string{"A"}, Refs: []string{"B"}},
		{Path: "b.jl", Classes: []string{"B"}, Refs: []string{"A"}},
		{Path: "c.jl", Classes: []string{"C"}, Refs: []string{"A"}},
		{Path: "d.jl", Classes: []string{"D"}},
	}
	idx := BuildIndex(metas)
	topo := ToposortKahn(BuildGraph(idx, metas))

	if !topo.Cyclic {
		t.Fatalf("expected cyclic remainder")
	}
	if got := idsToPaths(idx, topo.Cycles); !slices.Equal(got, []string{"a.jl", "b.jl", "c.jl"}) {
		t.Fatalf("cycles = %v", got)
	}
	got := idsToPaths(idx, topo.RequestOrder())
	if !slices.Equal(got, []string{"d.jl", "a.jl", "b.jl", "c.jl"}) {
		t.Fatalf("request order = %v", got)
	}
}

func TestBuildGraphIgnoresOnDemandImportsAndSelf(t *testing.T) {
	metas := []project.UnitMeta{
		{Path: "a.jl", Package: "p", Classes: []string{"p.A"}, Imports: []project.ImportMeta{{Name: "p.*"}, {Name: "p.A"}}},
	}
	idx := BuildIndex(metas)
	g := BuildGraph(idx, metas)
	if len(g.Deps[0]) != 0 || g.Indeg[0] != 0 {
		t.Fatalf("deps = %v indeg = %d, want none", g.Deps[0], g.Indeg[0])
	}
}
