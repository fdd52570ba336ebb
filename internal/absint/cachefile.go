package absint

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"tessera/internal/ir"
	"tessera/internal/lattice"
)

// Current schema version - increment when filePayload format changes.
const cacheFileSchemaVersion uint16 = 1

type filePayload[A lattice.AbstractValue[A]] struct {
	Schema  uint16
	Entries []fileEntry[A]
}

type fileEntry[A lattice.AbstractValue[A]] struct {
	Func    uint32
	Profile string
	Args    []A
	Result  A
}

// Save writes the cache's summaries to path with msgpack.
func (c *SummaryCache[A]) Save(path string) error {
	payload := filePayload[A]{Schema: cacheFileSchemaVersion}
	for key, entry := range c.entries {
		payload.Entries = append(payload.Entries, fileEntry[A]{
			Func:    uint32(key.fn),
			Profile: key.profile,
			Args:    entry.Args,
			Result:  entry.Result,
		})
	}
	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("absint: encode cache: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load merges summaries from path into the cache. A schema mismatch discards
// the file rather than failing the analysis; the cache is only ever an
// accelerator.
func (c *SummaryCache[A]) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var payload filePayload[A]
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("absint: decode cache: %w", err)
	}
	if payload.Schema != cacheFileSchemaVersion {
		return nil
	}
	for _, entry := range payload.Entries {
		key := summaryKey{fn: ir.FuncID(entry.Func), profile: entry.Profile}
		c.entries[key] = &SummaryEntry[A]{
			Func:   ir.FuncID(entry.Func),
			Args:   entry.Args,
			Result: entry.Result,
		}
	}
	return nil
}
