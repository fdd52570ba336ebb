package interp

import "tessera/internal/ir"

// Frame represents one function activation: the execution position inside the
// body plus the bindings from SSA values to runtime values.
type Frame struct {
	Func  ir.FuncID
	Block ir.BlockID
	Stmt  ir.StmtID // cursor: the statement dispatched next
	Env   map[ir.Value]any

	// ReturnTo is the caller-side SSA value that receives this frame's
	// return value; invalid for the root frame and for calls whose result
	// is discarded.
	ReturnTo ir.Value
}

// newFrame positions a frame at the first statement of the function's entry
// block with the entry arguments bound.
func newFrame(ctx *ir.Context, fn ir.FuncID, args []any, returnTo ir.Value) (*Frame, error) {
	entry := ctx.FuncCFG(fn).Entry()
	if !entry.IsValid() {
		return nil, Errf(CodeBadContinuation, ir.NoStmtID, "function %d has an empty body", fn)
	}
	f := &Frame{
		Func:     fn,
		Env:      make(map[ir.Value]any, 8),
		ReturnTo: returnTo,
	}
	if err := f.enter(ctx, entry, args); err != nil {
		return nil, err
	}
	return f, nil
}

// enter makes block current, binding its arguments to args.
func (f *Frame) enter(ctx *ir.Context, block ir.BlockID, args []any) error {
	b := ctx.Block(block)
	if len(args) != len(b.Params) {
		return Errf(CodeArity, ir.NoStmtID, "bb%d expects %d arguments, got %d", block, len(b.Params), len(args))
	}
	for i, arg := range args {
		f.Env[b.Arg(i)] = arg
	}
	f.Block = block
	f.Stmt = b.First
	return nil
}
