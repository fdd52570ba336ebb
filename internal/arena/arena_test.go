package arena

import "testing"

type entity struct {
	tag string
}

type entityID uint32

func TestInsertGet(t *testing.T) {
	a := New[entityID, entity](4)
	first := a.Insert(entity{tag: "a"})
	second := a.Insert(entity{tag: "b"})
	if first == second {
		t.Fatalf("handles must be distinct")
	}
	if got := a.Get(first).tag; got != "a" {
		t.Fatalf("Get(first) = %q, want a", got)
	}
	if got := a.Get(second).tag; got != "b" {
		t.Fatalf("Get(second) = %q, want b", got)
	}
	if a.Len() != 2 {
		t.Fatalf("Len = %d, want 2", a.Len())
	}
}

func TestGetMutatesInPlace(t *testing.T) {
	a := New[entityID, entity](0)
	id := a.Insert(entity{tag: "old"})
	a.Get(id).tag = "new"
	if got := a.Get(id).tag; got != "new" {
		t.Fatalf("mutation lost: %q", got)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	a := New[entityID, entity](0)
	a.Insert(entity{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range handle")
		}
	}()
	a.Get(entityID(99))
}

func TestZeroHandlePanics(t *testing.T) {
	a := New[entityID, entity](0)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for zero handle")
		}
	}()
	a.Get(entityID(0))
}

func TestGCRoundTrip(t *testing.T) {
	// Arbitrary delete pattern: every third item survives alongside the
	// ends; the survivors must keep their values and relative order.
	a := New[entityID, entity](0)
	var ids []entityID
	tags := []string{"a", "b", "c", "d", "e", "f", "g"}
	for _, tag := range tags {
		ids = append(ids, a.Insert(entity{tag: tag}))
	}
	deleted := map[int]bool{1: true, 2: true, 5: true}
	for i := range deleted {
		a.MarkDeleted(ids[i])
	}

	m := a.GC()

	if m.Len() != len(tags) {
		t.Fatalf("IdMap.Len = %d, want %d", m.Len(), len(tags))
	}
	wantNext := entityID(1)
	for i, id := range ids {
		mapped, ok := m.Get(id)
		if deleted[i] {
			if ok {
				t.Fatalf("deleted handle %d remapped to %d", id, mapped)
			}
			continue
		}
		if !ok {
			t.Fatalf("surviving handle %d reported deleted", id)
		}
		if mapped != wantNext {
			t.Fatalf("handle %d remapped to %d, want dense %d", id, mapped, wantNext)
		}
		if got := a.Get(mapped).tag; got != tags[i] {
			t.Fatalf("value at remapped handle = %q, want %q", got, tags[i])
		}
		wantNext++
	}
	if a.Len() != len(tags)-len(deleted) {
		t.Fatalf("post-GC Len = %d, want %d", a.Len(), len(tags)-len(deleted))
	}
}

func TestIdMapNeverIssuedPanics(t *testing.T) {
	a := New[entityID, entity](0)
	a.Insert(entity{})
	m := a.GC()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for never-issued handle")
		}
	}()
	m.Get(entityID(2))
}

func TestLiveSkipsTombstones(t *testing.T) {
	a := New[entityID, entity](0)
	keep := a.Insert(entity{tag: "keep"})
	drop := a.Insert(entity{tag: "drop"})
	a.MarkDeleted(drop)

	var seen []entityID
	a.Live(func(id entityID, e *entity) {
		seen = append(seen, id)
	})
	if len(seen) != 1 || seen[0] != keep {
		t.Fatalf("Live visited %v, want [%d]", seen, keep)
	}
	if !a.IsDeleted(drop) {
		t.Fatalf("tombstone flag lost")
	}
	// Tombstoned slots stay readable until GC.
	if got := a.Get(drop).tag; got != "drop" {
		t.Fatalf("tombstoned slot unreadable: %q", got)
	}
}
