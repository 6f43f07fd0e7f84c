package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag accumulates diagnostics for one compilation. Per spec §7, accumulation
// is only meaningful for warnings and style notes: the first error aborts
// the pass that raised it, so a Bag normally holds at most one error
// alongside any number of lower-level diagnostics.
type Bag struct {
	items   []Diagnostic
	maximum uint16
}

// NewBag creates a Bag with a capacity limit.
func NewBag(maximum int) *Bag {
	cap16, err := safecast.Conv[uint16](maximum)
	if err != nil {
		panic(fmt.Errorf("diag: bag maximum overflow: %w", err))
	}
	return &Bag{
		items:   make([]Diagnostic, 0, cap16),
		maximum: cap16,
	}
}

// Add appends d, honoring the capacity limit. Returns false if the bag is
// full.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any diagnostic at LevelError is present.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics in the bag.
func (b *Bag) Len() int { return len(b.items) }

// Items returns a read-only view of the accumulated diagnostics. Callers
// must not mutate the returned slice.
func (b *Bag) Items() []Diagnostic { return b.items }

// Sort orders diagnostics by file, start, end, then level (descending) for
// deterministic rendering.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		pi, pj := b.items[i].Primary(), b.items[j].Primary()
		if pi.File != pj.File {
			return pi.File < pj.File
		}
		if pi.Start != pj.Start {
			return pi.Start < pj.Start
		}
		if pi.End != pj.End {
			return pi.End < pj.End
		}
		return b.items[i].Level > b.items[j].Level
	})
}
