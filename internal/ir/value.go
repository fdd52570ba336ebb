package ir

// ValueKind enumerates SSA value kinds.
type ValueKind uint8

const (
	// BlockArgValue is bound by a block and supplied by predecessors or callers.
	BlockArgValue ValueKind = iota + 1
	// ResultValue is produced by exactly one statement.
	ResultValue
	// SyntheticValue carries no real binding; unit tests only.
	SyntheticValue
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case BlockArgValue:
		return "blockarg"
	case ResultValue:
		return "result"
	case SyntheticValue:
		return "synthetic"
	default:
		return "unknown"
	}
}

// Value is an SSA value reference. It is comparable and usable as a map key,
// which is how interpreter environments bind values to runtime state.
type Value struct {
	Kind  ValueKind
	Block BlockID // BlockArgValue: binding block
	Stmt  StmtID  // ResultValue: producing statement
	Index uint32  // argument or result position
	Type  TypeID
}

// BlockArg constructs a reference to a block's n-th argument.
func BlockArg(block BlockID, index uint32, typ TypeID) Value {
	return Value{Kind: BlockArgValue, Block: block, Index: index, Type: typ}
}

// Result constructs a reference to a statement's n-th result.
func Result(stmt StmtID, index uint32, typ TypeID) Value {
	return Value{Kind: ResultValue, Stmt: stmt, Index: index, Type: typ}
}

// Synthetic constructs an unbound test-only value.
func Synthetic(index uint32, typ TypeID) Value {
	return Value{Kind: SyntheticValue, Index: index, Type: typ}
}

// IsValid reports whether the value has a kind at all.
func (v Value) IsValid() bool {
	return v.Kind != 0
}
