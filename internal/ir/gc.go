package ir

import "tessera/internal/arena"

// Remap bundles the per-kind handle mappings produced by one Context.GC.
// Every structure outside the context that holds handles into it must be
// pushed through the relevant map before further use; the context does not
// track external holders.
type Remap struct {
	Blocks  arena.IdMap[BlockID]
	Stmts   arena.IdMap[StmtID]
	Regions arena.IdMap[RegionID]
	Staged  arena.IdMap[StagedID]
	Funcs   arena.IdMap[FuncID]
}

// Block translates a pre-GC block handle; NoBlockID when deleted or invalid.
func (r *Remap) Block(id BlockID) BlockID {
	if !id.IsValid() {
		return NoBlockID
	}
	n, _ := r.Blocks.Get(id)
	return n
}

// Stmt translates a pre-GC statement handle; NoStmtID when deleted or invalid.
func (r *Remap) Stmt(id StmtID) StmtID {
	if !id.IsValid() {
		return NoStmtID
	}
	n, _ := r.Stmts.Get(id)
	return n
}

// Region translates a pre-GC region handle; NoRegionID when deleted or invalid.
func (r *Remap) Region(id RegionID) RegionID {
	if !id.IsValid() {
		return NoRegionID
	}
	n, _ := r.Regions.Get(id)
	return n
}

// StagedFunc translates a pre-GC staged handle; NoStagedID when deleted or invalid.
func (r *Remap) StagedFunc(id StagedID) StagedID {
	if !id.IsValid() {
		return NoStagedID
	}
	n, _ := r.Staged.Get(id)
	return n
}

// Func translates a pre-GC function handle; NoFuncID when deleted or invalid.
func (r *Remap) Func(id FuncID) FuncID {
	if !id.IsValid() {
		return NoFuncID
	}
	n, _ := r.Funcs.Get(id)
	return n
}

// Value translates the handles inside an SSA value reference. A value whose
// binding was deleted comes back with a zero Block/Stmt handle.
func (r *Remap) Value(v Value) Value {
	switch v.Kind {
	case BlockArgValue:
		v.Block = r.Block(v.Block)
	case ResultValue:
		v.Stmt = r.Stmt(v.Stmt)
	}
	return v
}

// Remappable is an optional instruction capability: payloads that embed
// handles (operand values, successor blocks, nested regions) implement it so
// GC can rewrite them in place.
type Remappable interface {
	RemapHandles(*Remap) Instruction
}

// GC compacts every arena, rewrites all intra-context handles and returns
// the remap bundle for external holders. Requires exclusive access: no
// interpreter may be borrowing the context while the handle space is
// rewritten.
func (c *Context) GC() *Remap {
	r := &Remap{
		Blocks:  c.blocks.GC(),
		Stmts:   c.stmts.GC(),
		Regions: c.regions.GC(),
		Staged:  c.staged.GC(),
		Funcs:   c.funcs.GC(),
	}

	c.blocks.Live(func(id BlockID, b *Block) {
		b.ID = id
		b.Region = r.Region(b.Region)
		b.First = r.Stmt(b.First)
		b.Last = r.Stmt(b.Last)
		b.Next = r.Block(b.Next)
	})
	c.stmts.Live(func(id StmtID, s *Statement) {
		s.ID = id
		s.Block = r.Block(s.Block)
		s.Prev = r.Stmt(s.Prev)
		s.Next = r.Stmt(s.Next)
		if m, ok := s.Info.(Remappable); ok {
			s.Info = m.RemapHandles(r)
		}
	})
	c.regions.Live(func(id RegionID, reg *Region) {
		reg.ID = id
		reg.Parent = r.Stmt(reg.Parent)
		kept := reg.Blocks[:0]
		for _, bid := range reg.Blocks {
			if n := r.Block(bid); n.IsValid() {
				kept = append(kept, n)
			}
		}
		reg.Blocks = kept
	})
	c.staged.Live(func(id StagedID, f *StagedFunc) {
		f.ID = id
	})
	c.funcs.Live(func(id FuncID, f *Func) {
		f.ID = id
		f.Staged = r.StagedFunc(f.Staged)
		f.Def = r.Stmt(f.Def)
		f.Body = r.Region(f.Body)
	})
	return r
}
