package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"fortasr/internal/project"
)

// Topo is the result of Kahn's algorithm over a Graph: a total order plus
// the independent-module batches §5 allows compiling in parallel.
type Topo struct {
	Order   []ModuleID   // linear order, real modules only
	Batches [][]ModuleID // waves of independent modules
	Cyclic  bool
	Cycles  []ModuleID // nodes left over in a use cycle
}

// ToposortKahn runs Kahn's algorithm, breaking ties within a wave by
// ModuleID for determinism. A module is placed only after every present
// module it uses, so Order and Batches list dependencies first.
func ToposortKahn(g Graph) *Topo {
	n := len(g.Edges)
	// pending[i] counts the present modules i uses that are not yet placed;
	// users[to] lists the modules whose edges point at to.
	pending := make([]int, n)
	users := make([][]ModuleID, n)
	for from, tos := range g.Edges {
		for _, to := range tos {
			if g.Present[to] {
				pending[from]++
				users[to] = append(users[to], ModuleID(from))
			}
		}
	}

	topo := &Topo{Order: make([]ModuleID, 0, n), Batches: make([][]ModuleID, 0)}

	active := 0
	for i := range n {
		if g.Present[i] {
			active++
		}
	}

	current := make([]ModuleID, 0, n)
	for i := range n {
		if g.Present[i] && pending[i] == 0 {
			id, err := safecast.Conv[ModuleID](i)
			if err != nil {
				panic(fmt.Errorf("module id overflow: %w", err))
			}
			current = append(current, id)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]ModuleID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]ModuleID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, user := range users[id] {
				pending[user]--
				if pending[user] == 0 {
					next = append(next, user)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range n {
			if g.Present[i] && pending[i] > 0 {
				id, err := safecast.Conv[ModuleID](i)
				if err != nil {
					panic(fmt.Errorf("module id overflow: %w", err))
				}
				topo.Cycles = append(topo.Cycles, id)
			}
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}

// ComputeModuleHashes fills in each present module's ModuleHash as
// Combine(ContentHash, sorted dependency ModuleHashes), walking
// topo.Order front to back so every dependency is already hashed by the
// time its dependent is processed. No-op on a cyclic graph.
func ComputeModuleHashes(g Graph, slots []ModuleSlot, topo *Topo) {
	if topo == nil || topo.Cyclic {
		return
	}
	for _, id := range topo.Order {
		slot := &slots[id]
		if !slot.Present {
			continue
		}
		deps := make([]project.Digest, 0, len(g.Edges[id]))
		for _, to := range g.Edges[id] {
			if g.Present[to] {
				deps = append(deps, slots[to].Meta.ModuleHash)
			}
		}
		slot.Meta.ModuleHash = project.Combine(slot.Meta.ContentHash, deps...)
	}
}
