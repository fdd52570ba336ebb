// Package arena provides slice-backed storage for IR entities addressed by
// typed handles.
//
// Every entity kind gets its own Arena instantiation keyed by its own handle
// type, so a BlockID can never be used to fetch a Statement even though both
// are uint32 underneath. Handles are 1-based; zero is the invalid sentinel.
//
// Deletion is logical: MarkDeleted sets a tombstone and the slot survives
// until GC, which compacts the storage and hands back an IdMap. After GC every
// externally held handle must be pushed through the IdMap before further use;
// the arena does not track outside holders.
package arena

import (
	"fmt"

	"fortio.org/safecast"
)

// Item wraps a stored value together with its tombstone flag.
type Item[T any] struct {
	Value   T
	Deleted bool
}

// Arena owns all instances of one entity kind.
// The zero value is ready to use.
type Arena[I ~uint32, T any] struct {
	items []Item[T]
}

// New creates an arena with a capacity hint; zero is allowed.
func New[I ~uint32, T any](capHint uint) *Arena[I, T] {
	return &Arena[I, T]{items: make([]Item[T], 0, capHint)}
}

// Insert stores value and returns its fresh handle.
// Handles grow monotonically until the next GC.
func (a *Arena[I, T]) Insert(value T) I {
	a.items = append(a.items, Item[T]{Value: value})
	raw, err := safecast.Conv[uint32](len(a.items))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return I(raw)
}

// Get returns a pointer to the stored value.
// An out-of-range handle is a programmer error and panics; a tombstoned slot
// is still readable until GC.
func (a *Arena[I, T]) Get(id I) *T {
	return &a.items[a.index(id)].Value
}

// MarkDeleted tombstones the slot. The handle stays readable until GC.
func (a *Arena[I, T]) MarkDeleted(id I) {
	a.items[a.index(id)].Deleted = true
}

// IsDeleted reports whether the slot has been tombstoned.
func (a *Arena[I, T]) IsDeleted(id I) bool {
	return a.items[a.index(id)].Deleted
}

// Len reports the number of slots, tombstoned ones included.
func (a *Arena[I, T]) Len() int {
	return len(a.items)
}

// Live calls fn for every non-tombstoned slot in handle order.
// Mutating the arena during iteration is not supported.
func (a *Arena[I, T]) Live(fn func(I, *T)) {
	for i := range a.items {
		if a.items[i].Deleted {
			continue
		}
		fn(I(uint32(i)+1), &a.items[i].Value)
	}
}

// GC drops tombstoned slots, renumbers survivors densely in their original
// relative order and returns the old-to-new handle mapping. The caller must
// remap every handle it still holds; stale handles are not detected.
func (a *Arena[I, T]) GC() IdMap[I] {
	remap := make([]I, len(a.items))
	kept := a.items[:0]
	var next uint32
	for i := range a.items {
		if a.items[i].Deleted {
			continue
		}
		next++
		remap[i] = I(next)
		kept = append(kept, a.items[i])
	}
	clear(a.items[len(kept):])
	a.items = kept
	return IdMap[I]{remap: remap}
}

func (a *Arena[I, T]) index(id I) int {
	if id == 0 {
		panic("arena: invalid (zero) handle")
	}
	i := int(id) - 1
	if i >= len(a.items) {
		panic(fmt.Sprintf("arena: handle %d out of range (len %d)", id, len(a.items)))
	}
	return i
}

// IdMap records the handle renumbering produced by one GC.
type IdMap[I ~uint32] struct {
	remap []I
}

// Get translates a pre-GC handle. ok is false when the item was deleted.
// Asking about a handle the arena never issued is a programmer error and
// panics.
func (m IdMap[I]) Get(old I) (I, bool) {
	if old == 0 {
		panic("arena: invalid (zero) handle")
	}
	i := int(old) - 1
	if i >= len(m.remap) {
		panic(fmt.Sprintf("arena: handle %d was never issued (map len %d)", old, len(m.remap)))
	}
	n := m.remap[i]
	return n, n != 0
}

// Len reports how many handles the originating arena had issued at GC time.
func (m IdMap[I]) Len() int {
	return len(m.remap)
}
