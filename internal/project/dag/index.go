package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"polyc/internal/project"
)

type UnitID uint32

type UnitIndex struct {
	PathToID map[string]UnitID
	IDToPath []string
	// ClassToID maps a declared class to the first unit (by path) declaring it.
	ClassToID map[string]UnitID
}

// уникальные пути, sort.Strings, ID по порядку
func BuildIndex(metas []project.UnitMeta) UnitIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
	}
	paths := make([]string, 0, len(uniq))
	for path := range uniq {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	pathToID := make(map[string]UnitID, len(paths))
	for i, path := range paths {
		pathToID[path] = toID(i)
	}

	classToID := make(map[string]UnitID)
	for _, meta := range metas {
		id, ok := pathToID[meta.Path]
		if !ok {
			continue
		}
		for _, class := range meta.Classes {
			if prev, dup := classToID[class]; dup && prev <= id {
				continue
			}
			classToID[class] = id
		}
	}

	return UnitIndex{
		PathToID:  pathToID,
		IDToPath:  paths,
		ClassToID: classToID,
	}
}

// Lookup resolves a name as written in meta to the unit declaring it.
func (idx UnitIndex) Lookup(meta *project.UnitMeta, name string) (UnitID, bool) {
	for _, cand := range meta.Candidates(name) {
		if id, ok := idx.ClassToID[cand]; ok {
			return id, true
		}
	}
	return 0, false
}

func toID(i int) UnitID {
	id, err := safecast.Conv[UnitID](i)
	if err != nil {
		panic(fmt.Errorf("unit id overflow: %w", err))
	}
	return id
}
