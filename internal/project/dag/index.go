// Package dag computes a safe compilation order over Fortran `use`
// dependencies: Kahn's-algorithm topological sort plus batch computation
// for parallel compilation of independent modules (§5).
package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"fortasr/internal/project"
)

// ModuleID is a unique identifier for a module in the graph.
type ModuleID uint32

// ModuleIndex maps canonical module names to their numeric IDs.
type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// BuildIndex collects unique module names (declared and used-but-not-yet-seen)
// from metas, sorts them, and assigns IDs sequentially for determinism.
func BuildIndex(metas []project.ModuleMeta) ModuleIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Name != "" {
			uniq[project.Canonical(meta.Name)] = struct{}{}
		}
		for _, u := range meta.Uses {
			if u.ModuleName == "" {
				continue
			}
			uniq[project.Canonical(u.ModuleName)] = struct{}{}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]ModuleID, len(names))
	for i, name := range names {
		id, err := safecast.Conv[ModuleID](i)
		if err != nil {
			panic(fmt.Errorf("module id overflow: %w", err))
		}
		nameToID[name] = id
	}

	return ModuleIndex{NameToID: nameToID, IDToName: names}
}
