// Package intern provides monotonic value-to-key interning tables.
//
// A Table never evicts: keys are stable for its whole lifetime and interning
// an equal value twice yields the same key. Distinct key types instantiate
// distinct tables, so a stage-local symbol key cannot be passed where a
// cross-stage one is required.
package intern

import (
	"fmt"

	"fortio.org/safecast"
)

// Table interns values of type V under 1-based keys of type K.
// The zero value is ready to use.
type Table[K ~uint32, V comparable] struct {
	values []V
	index  map[V]K
}

// NewTable creates a table with a capacity hint; zero is allowed.
func NewTable[K ~uint32, V comparable](capHint uint) *Table[K, V] {
	return &Table[K, V]{
		values: make([]V, 0, capHint),
		index:  make(map[V]K, capHint),
	}
}

// Intern returns the existing key for an equal value or allocates the next one.
func (t *Table[K, V]) Intern(value V) K {
	if t.index == nil {
		t.index = make(map[V]K)
	}
	if k, ok := t.index[value]; ok {
		return k
	}
	t.values = append(t.values, value)
	raw, err := safecast.Conv[uint32](len(t.values))
	if err != nil {
		panic(fmt.Errorf("intern table overflow: %w", err))
	}
	k := K(raw)
	t.index[value] = k
	return k
}

// Resolve inverts Intern. ok is false for the zero key and for keys this
// table never issued.
func (t *Table[K, V]) Resolve(key K) (V, bool) {
	if key == 0 || int(key) > len(t.values) {
		var zero V
		return zero, false
	}
	return t.values[key-1], true
}

// Len reports the number of interned values.
func (t *Table[K, V]) Len() int {
	return len(t.values)
}
