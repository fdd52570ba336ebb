package ir

import (
	"errors"

	"tessera/internal/arena"
	"tessera/internal/intern"
)

// ErrTerminated is returned when appending a statement to a block that
// already ends in a terminator.
var ErrTerminated = errors.New("ir: block already terminated")

// Context aggregates the per-kind arenas and intern tables. It is the only
// mutator of IR structure; interpreters treat it as read-only input.
type Context struct {
	blocks  *arena.Arena[BlockID, Block]
	stmts   *arena.Arena[StmtID, Statement]
	regions *arena.Arena[RegionID, Region]
	staged  *arena.Arena[StagedID, StagedFunc]
	funcs   *arena.Arena[FuncID, Func]

	symbols *intern.Table[Symbol, string]
	globals *intern.Table[GlobalSymbol, string]
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		blocks:  arena.New[BlockID, Block](16),
		stmts:   arena.New[StmtID, Statement](64),
		regions: arena.New[RegionID, Region](8),
		staged:  arena.New[StagedID, StagedFunc](8),
		funcs:   arena.New[FuncID, Func](8),
		symbols: intern.NewTable[Symbol, string](32),
		globals: intern.NewTable[GlobalSymbol, string](8),
	}
}

// Block resolves a block handle. Panics on a handle this context never
// issued; that is a programmer error, not a recoverable condition.
func (c *Context) Block(id BlockID) *Block { return c.blocks.Get(id) }

// Stmt resolves a statement handle.
func (c *Context) Stmt(id StmtID) *Statement { return c.stmts.Get(id) }

// Region resolves a region handle.
func (c *Context) Region(id RegionID) *Region { return c.regions.Get(id) }

// Staged resolves a staged-function handle.
func (c *Context) Staged(id StagedID) *StagedFunc { return c.staged.Get(id) }

// Func resolves a specialized-function handle.
func (c *Context) Func(id FuncID) *Func { return c.funcs.Get(id) }

// InternSymbol interns a stage-local name.
func (c *Context) InternSymbol(name string) Symbol { return c.symbols.Intern(name) }

// SymbolName resolves a stage-local symbol; empty string for unknown keys.
func (c *Context) SymbolName(s Symbol) string {
	name, _ := c.symbols.Resolve(s)
	return name
}

// InternGlobal interns a cross-stage name.
func (c *Context) InternGlobal(name string) GlobalSymbol { return c.globals.Intern(name) }

// GlobalName resolves a cross-stage symbol; empty string for unknown keys.
func (c *Context) GlobalName(g GlobalSymbol) string {
	name, _ := c.globals.Resolve(g)
	return name
}

// NewRegion allocates an empty region. parent may be NoStmtID for a region
// not owned by any statement yet.
func (c *Context) NewRegion(parent StmtID) RegionID {
	id := c.regions.Insert(Region{Parent: parent})
	c.regions.Get(id).ID = id
	return id
}

// NewBlock allocates a block at the tail of the region's CFG order.
func (c *Context) NewBlock(region RegionID) BlockID {
	id := c.blocks.Insert(Block{Region: region})
	c.blocks.Get(id).ID = id
	r := c.regions.Get(region)
	if n := len(r.Blocks); n > 0 {
		c.blocks.Get(r.Blocks[n-1]).Next = id
	}
	r.Blocks = append(r.Blocks, id)
	return id
}

// AddBlockParam appends a block argument and returns its SSA value.
func (c *Context) AddBlockParam(block BlockID, name Symbol, typ TypeID) Value {
	b := c.blocks.Get(block)
	b.Params = append(b.Params, Param{Name: name, Type: typ})
	return b.Arg(len(b.Params) - 1)
}

// AppendStmt appends an instruction at the block tail. Only the last
// statement of a block may be a terminator, so appending to a terminated
// block fails with ErrTerminated.
func (c *Context) AppendStmt(block BlockID, info Instruction) (StmtID, error) {
	b := c.blocks.Get(block)
	if b.Last.IsValid() && IsTerminator(c.stmts.Get(b.Last).Info) {
		return NoStmtID, ErrTerminated
	}
	id := c.stmts.Insert(Statement{Block: block, Prev: b.Last, Info: info})
	c.stmts.Get(id).ID = id
	if b.Last.IsValid() {
		c.stmts.Get(b.Last).Next = id
	} else {
		b.First = id
	}
	b.Last = id
	return id, nil
}

// DeleteStmt unlinks the statement from its block and tombstones it.
// The handle stays resolvable until the next GC.
func (c *Context) DeleteStmt(id StmtID) {
	s := c.stmts.Get(id)
	if s.Prev.IsValid() {
		c.stmts.Get(s.Prev).Next = s.Next
	}
	if s.Next.IsValid() {
		c.stmts.Get(s.Next).Prev = s.Prev
	}
	b := c.blocks.Get(s.Block)
	if b.First == id {
		b.First = s.Next
	}
	if b.Last == id {
		b.Last = s.Prev
	}
	s.Prev, s.Next = NoStmtID, NoStmtID
	c.stmts.MarkDeleted(id)
}

// StageFunc declares a function: a cross-stage name plus a signature.
func (c *Context) StageFunc(name GlobalSymbol, sig Signature) StagedID {
	id := c.staged.Insert(StagedFunc{Name: name, Sig: sig})
	c.staged.Get(id).ID = id
	return id
}

// Specialize binds a concrete body to a staged declaration. def is the
// defining statement; the body region's parent link is pointed back at it.
func (c *Context) Specialize(staged StagedID, def StmtID, body RegionID) FuncID {
	id := c.funcs.Insert(Func{Staged: staged, Def: def, Body: body})
	c.funcs.Get(id).ID = id
	c.regions.Get(body).Parent = def
	return id
}

// DeleteFunc tombstones a specialized function together with its body
// region, blocks and statements. The staged declaration survives.
func (c *Context) DeleteFunc(id FuncID) {
	f := c.funcs.Get(id)
	if f.Body.IsValid() {
		r := c.regions.Get(f.Body)
		for _, bid := range r.Blocks {
			for sid := c.blocks.Get(bid).First; sid.IsValid(); {
				next := c.stmts.Get(sid).Next
				c.stmts.MarkDeleted(sid)
				sid = next
			}
			c.blocks.MarkDeleted(bid)
		}
		c.regions.MarkDeleted(f.Body)
	}
	c.funcs.MarkDeleted(id)
}

// LookupFunc finds the specialized function whose staged declaration carries
// the given cross-stage name.
func (c *Context) LookupFunc(name GlobalSymbol) (FuncID, bool) {
	var found FuncID
	c.funcs.Live(func(id FuncID, f *Func) {
		if !found.IsValid() && c.staged.Get(f.Staged).Name == name {
			found = id
		}
	})
	return found, found.IsValid()
}

// FuncCFG returns the CFG of a specialized function's body.
func (c *Context) FuncCFG(id FuncID) CFG {
	return CFG{entry: c.regions.Get(c.funcs.Get(id).Body).Entry()}
}

// RegionCFG returns the CFG rooted at a region's entry block.
func (c *Context) RegionCFG(id RegionID) CFG {
	return CFG{entry: c.regions.Get(id).Entry()}
}

// Funcs calls fn for every live specialized function in handle order.
func (c *Context) Funcs(fn func(FuncID, *Func)) {
	c.funcs.Live(fn)
}

// Stmts calls fn for every live statement of the block, first to last.
func (c *Context) Stmts(block BlockID, fn func(*Statement) bool) {
	for id := c.blocks.Get(block).First; id.IsValid(); {
		s := c.stmts.Get(id)
		if !fn(s) {
			return
		}
		id = s.Next
	}
}

// Terminator returns the block's terminator statement, or nil when the block
// is not terminated yet.
func (c *Context) Terminator(block BlockID) *Statement {
	b := c.blocks.Get(block)
	if !b.Last.IsValid() {
		return nil
	}
	s := c.stmts.Get(b.Last)
	if !IsTerminator(s.Info) {
		return nil
	}
	return s
}
