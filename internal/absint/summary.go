package absint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"tessera/internal/ir"
	"tessera/internal/lattice"
)

// SummaryEntry is the memoized result of analyzing one function for one
// abstract argument profile. The profile itself is kept so callers can audit
// how precise the cached analysis was.
type SummaryEntry[A lattice.AbstractValue[A]] struct {
	Func   ir.FuncID
	Args   []A
	Result A
}

type summaryKey struct {
	fn      ir.FuncID
	profile string
}

// SummaryCache memoizes per-function analysis results keyed by the function
// and a fingerprint of the abstract argument profile. Misses are not errors;
// they trigger recomputation in the engine.
type SummaryCache[A lattice.AbstractValue[A]] struct {
	entries map[summaryKey]*SummaryEntry[A]
}

// NewSummaryCache creates an empty cache.
func NewSummaryCache[A lattice.AbstractValue[A]]() *SummaryCache[A] {
	return &SummaryCache[A]{entries: make(map[summaryKey]*SummaryEntry[A], 16)}
}

// keyOf fingerprints an argument profile. The profile hash is the sha256 of
// the msgpack encoding of the abstract arguments, so domain values must be
// msgpack-encodable (exported fields or custom encoders).
func (c *SummaryCache[A]) keyOf(fn ir.FuncID, args []A) (summaryKey, error) {
	data, err := msgpack.Marshal(args)
	if err != nil {
		return summaryKey{}, fmt.Errorf("absint: fingerprint args: %w", err)
	}
	sum := sha256.Sum256(data)
	return summaryKey{fn: fn, profile: hex.EncodeToString(sum[:])}, nil
}

// Lookup probes the cache for an exact argument profile.
func (c *SummaryCache[A]) Lookup(fn ir.FuncID, args []A) (A, bool) {
	key, err := c.keyOf(fn, args)
	if err != nil {
		var zero A
		return zero, false
	}
	entry, ok := c.entries[key]
	if !ok {
		var zero A
		return zero, false
	}
	return entry.Result, true
}

// Insert installs a summary computed outside the engine, e.g. one loaded
// from another source or derived analytically.
func (c *SummaryCache[A]) Insert(fn ir.FuncID, args []A, result A) error {
	key, err := c.keyOf(fn, args)
	if err != nil {
		return err
	}
	c.install(key, fn, args, result)
	return nil
}

// Invalidate drops every summary of fn, e.g. when a caller observes the
// function was analyzed under a less precise argument abstraction.
func (c *SummaryCache[A]) Invalidate(fn ir.FuncID) {
	for key := range c.entries {
		if key.fn == fn {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of cached summaries.
func (c *SummaryCache[A]) Len() int { return len(c.entries) }

// Remap is the GC hook: after a Context.GC, summaries of deleted functions
// are dropped and the rest are rekeyed to the new handles.
func (c *SummaryCache[A]) Remap(r *ir.Remap) {
	rekeyed := make(map[summaryKey]*SummaryEntry[A], len(c.entries))
	for key, entry := range c.entries {
		fn := r.Func(key.fn)
		if !fn.IsValid() {
			continue
		}
		entry.Func = fn
		rekeyed[summaryKey{fn: fn, profile: key.profile}] = entry
	}
	c.entries = rekeyed
}

func (c *SummaryCache[A]) install(key summaryKey, fn ir.FuncID, args []A, result A) {
	c.entries[key] = &SummaryEntry[A]{
		Func:   fn,
		Args:   append([]A(nil), args...),
		Result: result,
	}
}
