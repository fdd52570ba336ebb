package testkit

import (
	"fmt"

	"tessera/internal/ir"
	"tessera/internal/testkit/cf"
)

// FuncBuilder assembles one specialized function out of test-dialect
// statements. Statement result values need their own statement handle, so
// each helper appends a placeholder first and patches the payload in.
type FuncBuilder struct {
	Ctx  *ir.Context
	Fn   ir.FuncID
	Body ir.RegionID
}

// NewFunc stages and specializes a function in one go.
func NewFunc(ctx *ir.Context, name string, sig ir.Signature) *FuncBuilder {
	staged := ctx.StageFunc(ctx.InternGlobal(name), sig)
	body := ctx.NewRegion(ir.NoStmtID)
	fn := ctx.Specialize(staged, ir.NoStmtID, body)
	return &FuncBuilder{Ctx: ctx, Fn: fn, Body: body}
}

// IntSig builds an all-int signature with n parameters.
func IntSig(n int) ir.Signature {
	params := make([]ir.TypeID, n)
	for i := range params {
		params[i] = TInt
	}
	return ir.Signature{Params: params, Result: TInt}
}

// Block appends a new block to the body; the first one becomes the entry.
func (b *FuncBuilder) Block() ir.BlockID {
	return b.Ctx.NewBlock(b.Body)
}

// Param adds a block argument and returns its SSA value.
func (b *FuncBuilder) Param(block ir.BlockID, name string) ir.Value {
	return b.Ctx.AddBlockParam(block, b.Ctx.InternSymbol(name), TInt)
}

// Const appends test.const and returns its result value.
func (b *FuncBuilder) Const(block ir.BlockID, k int64) ir.Value {
	id := b.append(block, Const{})
	out := ir.Result(id, 0, TInt)
	b.Ctx.Stmt(id).Info = Const{K: k, Out: out}
	return out
}

// Add appends test.add and returns its result value.
func (b *FuncBuilder) Add(block ir.BlockID, x, y ir.Value) ir.Value {
	id := b.append(block, Add{})
	out := ir.Result(id, 0, TInt)
	b.Ctx.Stmt(id).Info = Add{X: x, Y: y, Out: out}
	return out
}

// Jump appends cf.jump.
func (b *FuncBuilder) Jump(block, target ir.BlockID, args ...ir.Value) ir.StmtID {
	return b.append(block, cf.Jump{Target: target, Args: args})
}

// Return appends cf.return with a value.
func (b *FuncBuilder) Return(block ir.BlockID, v ir.Value) ir.StmtID {
	return b.append(block, cf.Return{Value: v, HasValue: true})
}

// CondBr appends test.condbr wrapping a generic branch.
func (b *FuncBuilder) CondBr(block ir.BlockID, cond ir.Value, then, els ir.BlockID, thenArgs, elseArgs []ir.Value) ir.StmtID {
	return b.append(block, CondBranch{Br: cf.Branch{
		Cond:     cond,
		Then:     then,
		Else:     els,
		ThenArgs: thenArgs,
		ElseArgs: elseArgs,
	}})
}

// RawBranch appends the unwrapped cf.branch stub (no condition semantics).
func (b *FuncBuilder) RawBranch(block ir.BlockID, cond ir.Value, then, els ir.BlockID) ir.StmtID {
	return b.append(block, cf.Branch{Cond: cond, Then: then, Else: els})
}

// Call appends cf.call and returns its result value.
func (b *FuncBuilder) Call(block ir.BlockID, callee ir.FuncID, args ...ir.Value) ir.Value {
	id := b.append(block, cf.Call{})
	out := ir.Result(id, 0, TInt)
	b.Ctx.Stmt(id).Info = cf.Call{Callee: callee, Args: args, Out: out}
	return out
}

func (b *FuncBuilder) append(block ir.BlockID, info ir.Instruction) ir.StmtID {
	id, err := b.Ctx.AppendStmt(block, info)
	if err != nil {
		panic(fmt.Sprintf("testkit: append %s: %v", info.OpName(), err))
	}
	return id
}
