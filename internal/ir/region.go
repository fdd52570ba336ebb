package ir

// Region is an ordered list of blocks sharing one CFG numbering.
// Parent is the statement that owns the region (a function-defining statement
// or a structured-control-flow operation); it is resolved through the
// Context, never an embedded reference.
type Region struct {
	ID     RegionID
	Parent StmtID // optional
	Blocks []BlockID
}

// Entry returns the region's entry block, or NoBlockID for an empty region.
func (r *Region) Entry() BlockID {
	if len(r.Blocks) == 0 {
		return NoBlockID
	}
	return r.Blocks[0]
}

// CFG is a forward traversal handle over a region's blocks: a distinguished
// entry plus the Next links threaded through the blocks.
type CFG struct {
	entry BlockID
}

// Entry returns the CFG head.
func (c CFG) Entry() BlockID {
	return c.entry
}

// Blocks walks the CFG forward from the entry, calling fn for each block.
// Traversal stops early when fn returns false.
func (c CFG) Blocks(ctx *Context, fn func(*Block) bool) {
	for id := c.entry; id.IsValid(); {
		b := ctx.Block(id)
		if !fn(b) {
			return
		}
		id = b.Next
	}
}
