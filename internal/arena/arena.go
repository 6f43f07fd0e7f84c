// Package arena implements the bump-allocating region that owns every AST
// and ASR node (and, via source.Interner, every interned string) for one
// translation unit. Nodes are never freed individually: the whole region
// is reclaimed at once when the translation unit is dropped.
package arena

import (
	"fmt"

	"fortio.org/safecast"
)

// ID is a 1-based handle into an Arena. 0 (Zero) means "no node".
type ID uint32

// Zero is the sentinel ID meaning "absent".
const Zero ID = 0

// IsValid reports whether id refers to an allocated element.
func (id ID) IsValid() bool { return id != Zero }

// Arena is a generic append-only store for values of type T, indexed by a
// stable 1-based ID. Storing elements behind pointers means a later
// in-place overwrite (used by deserialization's forward-reference fixup,
// see internal/serialize) never invalidates an ID or an already-taken
// pointer: the address backing an ID never moves once allocated.
type Arena[T any] struct {
	data []*T
}

// New returns an arena whose backing slice is preallocated to capHint
// entries; capHint of 0 is fine.
func New[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]*T, 0, capHint)}
}

// Allocate appends value and returns its ID.
func (a *Arena[T]) Allocate(value T) ID {
	elem := new(T)
	*elem = value
	a.data = append(a.data, elem)
	return a.Len()
}

// Reserve allocates a zero-valued slot and returns its ID without
// requiring the caller to already know the value. Used by the
// deserializer to create a forward-reference shell that later gets
// overwritten in place once the real definition is read.
func (a *Arena[T]) Reserve() ID {
	a.data = append(a.data, new(T))
	return a.Len()
}

// Get returns a pointer to the element at id, or nil for Zero or an
// out-of-range id. The returned pointer is stable for the arena's
// lifetime: it is safe to retain.
func (a *Arena[T]) Get(id ID) *T {
	if id == Zero || int(id) > len(a.data) {
		return nil
	}
	return a.data[id-1]
}

// Overwrite replaces the value stored at id in place, preserving its
// address. Used to fill in a Reserve-d forward-reference shell.
func (a *Arena[T]) Overwrite(id ID, value T) {
	ptr := a.Get(id)
	if ptr == nil {
		panic(fmt.Errorf("arena: overwrite of invalid id %d", id))
	}
	*ptr = value
}

// Len returns the number of allocated elements.
func (a *Arena[T]) Len() ID {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena: length overflow: %w", err))
	}
	return ID(n)
}

// All iterates every allocated element in allocation order, yielding its
// ID and pointer. Mutating through the pointer is visible to later Get
// calls for the same id.
func (a *Arena[T]) All(fn func(id ID, value *T) bool) {
	for i, ptr := range a.data {
		id, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(fmt.Errorf("arena: index overflow: %w", err))
		}
		if !fn(ID(id), ptr) {
			return
		}
	}
}
