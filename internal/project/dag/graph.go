package dag

import (
	"slices"

	"polyc/internal/project"
)

type Graph struct {
	Deps  [][]UnitID // Deps[from] = units whose classes from refers to
	Users [][]UnitID // обратные рёбра
	Indeg []int      // число зависимостей, для Kahn
}

// BuildGraph links every unit to the units declaring the classes it
// imports or mentions. Self references and unknown names are skipped;
// sema reports the latter.
func BuildGraph(idx UnitIndex, metas []project.UnitMeta) Graph {
	n := len(idx.IDToPath)
	g := Graph{
		Deps:  make([][]UnitID, n),
		Users: make([][]UnitID, n),
		Indeg: make([]int, n),
	}
	for i := range metas {
		meta := &metas[i]
		from, ok := idx.PathToID[meta.Path]
		if !ok || len(g.Deps[from]) > 0 {
			// повторное описание того же пути
			continue
		}
		seen := make(map[UnitID]struct{})
		add := func(to UnitID) {
			if to == from {
				return
			}
			if _, dup := seen[to]; dup {
				return
			}
			seen[to] = struct{}{}
			g.Deps[from] = append(g.Deps[from], to)
		}
		for _, imp := range meta.Imports {
			if _, ok := cutStar(imp.Name); ok {
				continue
			}
			if to, ok := idx.ClassToID[imp.Name]; ok {
				add(to)
			}
		}
		for _, ref := range meta.Refs {
			if to, ok := idx.Lookup(meta, ref); ok {
				add(to)
			}
		}
		slices.Sort(g.Deps[from])
	}
	for from, deps := range g.Deps {
		g.Indeg[from] = len(deps)
		for _, to := range deps {
			g.Users[to] = append(g.Users[to], toID(from))
		}
	}
	return g
}

func cutStar(name string) (string, bool) {
	if len(name) >= 2 && name[len(name)-2:] == ".*" {
		return name[:len(name)-2], true
	}
	return name, false
}
