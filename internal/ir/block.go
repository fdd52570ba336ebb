package ir

// Param is one block argument: an interned name plus its type.
type Param struct {
	Name Symbol
	Type TypeID
}

// Block is a basic block: an argument list and an intrusive statement list.
// At most the last statement is a terminator (enforced by the builder and
// checked by Validate).
type Block struct {
	ID     BlockID
	Region RegionID // owning region, non-owning back-reference
	Params []Param
	First  StmtID  // head of the statement list
	Last   StmtID  // tail; the terminator when the block is terminated
	Next   BlockID // forward CFG-order link within the region
}

// Arg returns the SSA value bound by the block's n-th argument.
func (b *Block) Arg(index int) Value {
	return BlockArg(b.ID, uint32(index), b.Params[index].Type)
}

// Args returns the SSA values for all block arguments.
func (b *Block) Args() []Value {
	if len(b.Params) == 0 {
		return nil
	}
	out := make([]Value, len(b.Params))
	for i := range b.Params {
		out[i] = b.Arg(i)
	}
	return out
}

// Empty reports whether the block has no statements.
func (b *Block) Empty() bool {
	return !b.First.IsValid()
}
