package dag

import (
	"fmt"
	"slices"

	"fortasr/internal/diag"
	"fortasr/internal/project"
	"fortasr/internal/source"
)

// Graph is the `use`-edge dependency graph over a ModuleIndex's ID space.
type Graph struct {
	Edges   [][]ModuleID // Edges[from] = []to, deduplicated and sorted
	Indeg   []int        // incoming-edge counts, counting only Present modules
	Present []bool       // true iff a real module (not just a use target) exists at this ID
}

// ModuleNode is one module's metadata plus where to report its own
// diagnostics (E-MOD-CYCLE, missing/duplicate/self `use`).
type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
}

// ModuleSlot is the per-ID working copy BuildGraph and ToposortKahn mutate.
type ModuleSlot struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Present  bool
}

// BuildGraph places every node at its ModuleIndex slot and records a
// diagnostic (via the node's own Reporter) for a duplicate module name, a
// `use` of an unknown module, or a `use` of the module itself — matching
// SPEC_FULL.md §C.1's "use cycles as a dedicated diagnostic rather than an
// assertion failure."
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	n := len(idx.IDToName)
	g := Graph{Edges: make([][]ModuleID, n), Indeg: make([]int, n), Present: make([]bool, n)}
	slots := make([]ModuleSlot, n)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, node := range nodes {
		meta := node.Meta
		if meta.Name == "" {
			continue
		}
		id, ok := idx.NameToID[project.Canonical(meta.Name)]
		if !ok {
			continue
		}
		slot := &slots[id]
		if slot.Present {
			if node.Reporter != nil {
				node.Reporter.Report(diag.Diagnostic{
					Level: diag.LevelError, Stage: diag.StageSemantic, Kind: diag.KindSemantic,
					Message: fmt.Sprintf("module %q already defined", meta.Name),
					Labels:  []diag.Label{diag.PrimaryLabel(meta.Span, "duplicate module declaration")},
				})
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		g.Present[id] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Uses) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Uses))
		for _, use := range slot.Meta.Uses {
			if use.ModuleName == "" {
				continue
			}
			toID, ok := idx.NameToID[project.Canonical(use.ModuleName)]
			if !ok {
				reportUseDiag(slot, use.Span, fmt.Sprintf("module %q uses unknown module %q", slot.Meta.Name, use.ModuleName))
				continue
			}
			if ModuleID(from) == toID {
				reportUseDiag(slot, use.Span, fmt.Sprintf("module %q uses itself", slot.Meta.Name))
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			g.Edges[from] = append(g.Edges[from], toID)
			if g.Present[toID] {
				g.Indeg[toID]++
			} else {
				reportUseDiag(slot, use.Span, fmt.Sprintf("module %q uses missing module %q", slot.Meta.Name, idx.IDToName[toID]))
			}
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

func reportUseDiag(slot *ModuleSlot, sp source.Span, msg string) {
	if slot.Reporter == nil {
		return
	}
	slot.Reporter.Report(diag.Diagnostic{
		Level: diag.LevelError, Stage: diag.StageSemantic, Kind: diag.KindSemantic,
		Message: msg,
		Labels:  []diag.Label{diag.PrimaryLabel(sp, msg)},
	})
}

// ReportCycles reports E-MOD-CYCLE against every module left in a
// dependency cycle after ToposortKahn.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[id])
	}
	for _, id := range topo.Cycles {
		slot := slots[id]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("module %q participates in a use cycle with: %v", slot.Meta.Name, names)
		slot.Reporter.Report(diag.Diagnostic{
			Level: diag.LevelError, Stage: diag.StageSemantic, Kind: diag.KindSemantic,
			Message: msg,
			Labels:  []diag.Label{diag.PrimaryLabel(slot.Meta.Span, msg)},
		})
	}
}
