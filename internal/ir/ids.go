// Package ir provides the SSA graph model: blocks, regions, statements and
// functions, stored in per-kind arenas and addressed by typed handles.
//
// The graph carries no instruction semantics of its own. Each Statement holds
// an opaque dialect payload; what an instruction reads, produces or targets is
// recovered through the capability layer in internal/dialect. Construction
// goes through the Context builder operations, mutation only through the
// owning arenas, and deletion is logical until an explicit GC.
package ir

// BlockID identifies a basic block.
type BlockID uint32

// StmtID identifies a statement.
type StmtID uint32

// RegionID identifies a region (an ordered list of blocks).
type RegionID uint32

// StagedID identifies a staged function declaration (signature, no body).
type StagedID uint32

// FuncID identifies a specialized function (staged declaration plus body).
type FuncID uint32

// TypeID identifies a type drawn from a dialect's type lattice.
type TypeID uint32

// Symbol is a stage-local interned name (SSA values, block labels).
type Symbol uint32

// GlobalSymbol is a cross-stage interned name (function names).
type GlobalSymbol uint32

// Invalid handle constants (zero is sentinel).
const (
	NoBlockID  BlockID      = 0
	NoStmtID   StmtID       = 0
	NoRegionID RegionID     = 0
	NoStagedID StagedID     = 0
	NoFuncID   FuncID       = 0
	NoTypeID   TypeID       = 0
	NoSymbol   Symbol       = 0
	NoGlobal   GlobalSymbol = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id BlockID) IsValid() bool      { return id != NoBlockID }
func (id StmtID) IsValid() bool       { return id != NoStmtID }
func (id RegionID) IsValid() bool     { return id != NoRegionID }
func (id StagedID) IsValid() bool     { return id != NoStagedID }
func (id FuncID) IsValid() bool       { return id != NoFuncID }
func (id TypeID) IsValid() bool       { return id != NoTypeID }
func (id Symbol) IsValid() bool       { return id != NoSymbol }
func (id GlobalSymbol) IsValid() bool { return id != NoGlobal }
