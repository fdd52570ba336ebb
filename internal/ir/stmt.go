package ir

// Instruction is the minimal contract a dialect payload satisfies.
// Everything else an instruction can do (operands, results, successors,
// nested regions, terminator-ness) is an optional capability probed through
// internal/dialect.
type Instruction interface {
	OpName() string
}

// Wrapper is implemented by composite-dialect instructions that delegate to
// an inner instruction. Capability probes walk the Unwrap chain, so a
// wrapping variant forwards every capability it does not override.
type Wrapper interface {
	Unwrap() Instruction
}

// IsTerminator reports whether the instruction (or anything it wraps)
// transfers control out of its block. Terminator-ness is structural: the
// builder uses it to keep terminators at block tails.
func IsTerminator(in Instruction) bool {
	for in != nil {
		if t, ok := in.(interface{ IsTerminator() bool }); ok {
			return t.IsTerminator()
		}
		w, ok := in.(Wrapper)
		if !ok {
			return false
		}
		in = w.Unwrap()
	}
	return false
}

// Statement is one instruction occurrence in a block: the dialect payload
// plus its position in the owning block's intrusive list.
//
// Prev/Next are handles rather than pointers so blocks can be reordered and
// statements spliced without moving statement storage.
type Statement struct {
	ID    StmtID
	Block BlockID // owning block, non-owning back-reference
	Prev  StmtID
	Next  StmtID
	Info  Instruction
}
