package dag

import (
	"slices"
)

type Topo struct {
	Order   []UnitID   // зависимости раньше пользователей
	Batches [][]UnitID // волны независимых юнитов
	Cyclic  bool
	Cycles  []UnitID // юниты, оставшиеся в цикле или зависящие от него
}

// ToposortKahn orders units so that dependencies come first. Mutual
// references between units are legal; their members end up in Cycles.
func ToposortKahn(g Graph) *Topo {
	n := len(g.Deps)
	indeg := slices.Clone(g.Indeg)
	topo := &Topo{
		Order:   make([]UnitID, 0, n),
		Batches: make([][]UnitID, 0),
	}

	current := make([]UnitID, 0, n)
	for i := range n {
		if indeg[i] == 0 {
			current = append(current, toID(i))
		}
	}

	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)
		next := make([]UnitID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			for _, user := range g.Users[id] {
				indeg[user]--
				if indeg[user] == 0 {
					next = append(next, user)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if len(topo.Order) != n {
		topo.Cyclic = true
		for i := range n {
			if indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, toID(i))
			}
		}
	}
	return topo
}

// RequestOrder is Order followed by the cyclic remainder.
func (t *Topo) RequestOrder() []UnitID {
	out := make([]UnitID, 0, len(t.Order)+len(t.Cycles))
	out = append(out, t.Order...)
	return append(out, t.Cycles...)
}
