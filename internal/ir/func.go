package ir

// TypeParam is one generic parameter of a staged declaration: an interned
// name plus an upper bound in the dialect's type lattice.
type TypeParam struct {
	Name  Symbol
	Bound TypeID
}

// Signature describes what a function accepts and returns.
type Signature struct {
	Params     []TypeID
	Result     TypeID
	TypeParams []TypeParam // nil when not generic
}

// IsGeneric reports whether the signature carries type parameters.
func (s *Signature) IsGeneric() bool {
	return len(s.TypeParams) > 0
}

// StagedFunc is a function declaration before a body exists: a cross-stage
// name plus a signature. Staged declarations live in their own arena under
// their own handle kind, so a declaration can never be passed where an
// executable body is required.
type StagedFunc struct {
	ID   StagedID
	Name GlobalSymbol
	Sig  Signature
}

// Func is a specialized function: a staged declaration instantiated with a
// concrete body. Def is the statement that defines the function; the body
// region's Parent link points back at it.
type Func struct {
	ID     FuncID
	Staged StagedID
	Def    StmtID // defining statement, non-owning back-reference
	Body   RegionID
}
