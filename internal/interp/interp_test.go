package interp_test

import (
	"errors"
	"testing"

	"tessera/internal/interp"
	"tessera/internal/ir"
	"tessera/internal/testkit"
)

func buildAnswer(ctx *ir.Context) ir.FuncID {
	b := testkit.NewFunc(ctx, "answer", testkit.IntSig(0))
	entry := b.Block()
	b.Return(entry, b.Const(entry, 42))
	return b.Fn
}

func buildDouble(ctx *ir.Context) ir.FuncID {
	b := testkit.NewFunc(ctx, "double", testkit.IntSig(1))
	entry := b.Block()
	x := b.Param(entry, "x")
	b.Return(entry, b.Add(entry, x, x))
	return b.Fn
}

// buildCountdown loops n down to zero and returns double(0).
func buildCountdown(ctx *ir.Context, double ir.FuncID) ir.FuncID {
	b := testkit.NewFunc(ctx, "countdown", testkit.IntSig(1))
	entry := b.Block()
	loop := b.Block()
	body := b.Block()
	exit := b.Block()

	n := b.Param(entry, "n")
	b.Jump(entry, loop, n)

	i := b.Param(loop, "i")
	b.CondBr(loop, i, body, exit, []ir.Value{i}, []ir.Value{i})

	iv := b.Param(body, "i")
	b.Jump(body, loop, b.Add(body, iv, b.Const(body, -1)))

	ev := b.Param(exit, "i")
	b.Return(exit, b.Call(exit, double, ev))
	return b.Fn
}

func TestRunStraightLine(t *testing.T) {
	ctx := ir.NewContext()
	fn := buildAnswer(ctx)
	itp := interp.New(ctx, interp.Options{})
	got, err := itp.Run(fn)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("answer() = %v, want 42", got)
	}
	// One const, one return.
	if itp.Steps() != 2 {
		t.Fatalf("steps = %d, want 2", itp.Steps())
	}
	if itp.Depth() != 0 {
		t.Fatalf("depth after completion = %d", itp.Depth())
	}
}

func TestRunCallRoundTrip(t *testing.T) {
	ctx := ir.NewContext()
	double := buildDouble(ctx)
	fn := buildCountdown(ctx, double)
	itp := interp.New(ctx, interp.Options{})
	got, err := itp.Run(fn, int64(4))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != int64(0) {
		t.Fatalf("countdown(4) = %v, want 0", got)
	}
}

func TestRunDeterministic(t *testing.T) {
	ctx := ir.NewContext()
	double := buildDouble(ctx)
	fn := buildCountdown(ctx, double)

	first := interp.New(ctx, interp.Options{})
	r1, err := first.Run(fn, int64(9))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second := interp.New(ctx, interp.Options{})
	r2, err := second.Run(fn, int64(9))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if r1 != r2 || first.Steps() != second.Steps() {
		t.Fatalf("runs diverged: %v/%d vs %v/%d", r1, first.Steps(), r2, second.Steps())
	}
}

func TestFuelExhausted(t *testing.T) {
	ctx := ir.NewContext()
	double := buildDouble(ctx)
	fn := buildCountdown(ctx, double)
	itp := interp.New(ctx, interp.Options{Fuel: 3})
	_, err := itp.Run(fn, int64(1_000_000))
	if !interp.IsCode(err, interp.CodeFuelExhausted) {
		t.Fatalf("got %v, want CodeFuelExhausted", err)
	}
	if itp.Steps() != 3 {
		t.Fatalf("steps = %d, want exactly the budget", itp.Steps())
	}
}

func TestAnswerWithFuelOne(t *testing.T) {
	ctx := ir.NewContext()
	fn := buildAnswer(ctx)
	itp := interp.New(ctx, interp.Options{Fuel: 1})
	_, err := itp.Run(fn)
	if !interp.IsCode(err, interp.CodeFuelExhausted) {
		t.Fatalf("got %v, want CodeFuelExhausted", err)
	}
}

func TestFuelBoundOnSelfLoop(t *testing.T) {
	ctx := ir.NewContext()
	b := testkit.NewFunc(ctx, "spin", testkit.IntSig(0))
	entry := b.Block()
	b.Jump(entry, entry)

	itp := interp.New(ctx, interp.Options{Fuel: 5})
	_, err := itp.Run(b.Fn)
	if !interp.IsCode(err, interp.CodeFuelExhausted) {
		t.Fatalf("got %v, want CodeFuelExhausted", err)
	}
	if itp.Steps() != 5 {
		t.Fatalf("steps = %d, want exactly the budget", itp.Steps())
	}
}

func TestNegativeFuelMeansZeroBudget(t *testing.T) {
	ctx := ir.NewContext()
	fn := buildAnswer(ctx)
	itp := interp.New(ctx, interp.Options{Fuel: -1})
	_, err := itp.Run(fn)
	if !interp.IsCode(err, interp.CodeFuelExhausted) {
		t.Fatalf("got %v, want CodeFuelExhausted", err)
	}
	if itp.Steps() != 0 {
		t.Fatalf("dispatched %d statements on a zero budget", itp.Steps())
	}
}

func TestExactFuelBound(t *testing.T) {
	ctx := ir.NewContext()
	double := buildDouble(ctx)
	fn := buildCountdown(ctx, double)

	measure := interp.New(ctx, interp.Options{})
	if _, err := measure.Run(fn, int64(5)); err != nil {
		t.Fatalf("measuring run: %v", err)
	}
	need := measure.Steps()

	exact := interp.New(ctx, interp.Options{Fuel: need})
	if _, err := exact.Run(fn, int64(5)); err != nil {
		t.Fatalf("run with exact fuel: %v", err)
	}
	short := interp.New(ctx, interp.Options{Fuel: need - 1})
	if _, err := short.Run(fn, int64(5)); !interp.IsCode(err, interp.CodeFuelExhausted) {
		t.Fatalf("one step short: %v, want CodeFuelExhausted", err)
	}
}

func TestBreakpointPauseAndResume(t *testing.T) {
	ctx := ir.NewContext()
	b := testkit.NewFunc(ctx, "f", testkit.IntSig(0))
	entry := b.Block()
	v1 := b.Const(entry, 20)
	v2 := b.Const(entry, 22)
	sum := b.Add(entry, v1, v2)
	b.Return(entry, sum)

	itp := interp.New(ctx, interp.Options{})
	itp.SetBreakpoint(sum.Stmt)

	_, err := itp.Run(b.Fn)
	if !errors.Is(err, interp.ErrPaused) {
		t.Fatalf("run: %v, want ErrPaused", err)
	}
	if itp.At() != sum.Stmt {
		t.Fatalf("paused at s%d, want s%d", itp.At(), sum.Stmt)
	}
	if itp.Steps() != 2 {
		t.Fatalf("steps before pause = %d, want 2", itp.Steps())
	}

	got, err := itp.Resume()
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("resume result = %v, want 42", got)
	}
}

func TestBreakpointInsideCallee(t *testing.T) {
	ctx := ir.NewContext()
	double := buildDouble(ctx)
	fn := buildCountdown(ctx, double)

	// The add inside double is the first non-terminator statement there.
	var addStmt ir.StmtID
	ctx.Stmts(ctx.FuncCFG(double).Entry(), func(s *ir.Statement) bool {
		if s.Info.OpName() == "test.add" {
			addStmt = s.ID
			return false
		}
		return true
	})
	if !addStmt.IsValid() {
		t.Fatalf("no add statement in double")
	}

	itp := interp.New(ctx, interp.Options{})
	itp.SetBreakpoint(addStmt)
	_, err := itp.Run(fn, int64(2))
	if !errors.Is(err, interp.ErrPaused) {
		t.Fatalf("run: %v, want ErrPaused", err)
	}
	if itp.Depth() != 2 {
		t.Fatalf("paused at depth %d, want 2", itp.Depth())
	}
	got, err := itp.Resume()
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got != int64(0) {
		t.Fatalf("resume result = %v, want 0", got)
	}
}

func TestDepthRestoredAfterCall(t *testing.T) {
	ctx := ir.NewContext()
	double := buildDouble(ctx)
	b := testkit.NewFunc(ctx, "caller", testkit.IntSig(1))
	entry := b.Block()
	x := b.Param(entry, "x")
	r := b.Call(entry, double, x)
	ret := b.Return(entry, r)

	// Pause on the return statement, after the callee has popped.
	itp := interp.New(ctx, interp.Options{})
	itp.SetBreakpoint(ret)
	_, err := itp.Run(b.Fn, int64(21))
	if !errors.Is(err, interp.ErrPaused) {
		t.Fatalf("run: %v, want ErrPaused", err)
	}
	if itp.Depth() != 1 {
		t.Fatalf("depth after callee returned = %d, want 1", itp.Depth())
	}
	got, err := itp.Resume()
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("caller(21) = %v, want 42", got)
	}
}

func TestClearBreakpoint(t *testing.T) {
	ctx := ir.NewContext()
	b := testkit.NewFunc(ctx, "f", testkit.IntSig(0))
	entry := b.Block()
	v := b.Const(entry, 1)
	b.Return(entry, v)

	itp := interp.New(ctx, interp.Options{})
	itp.SetBreakpoint(v.Stmt)
	itp.ClearBreakpoint(v.Stmt)
	if _, err := itp.Run(b.Fn); err != nil {
		t.Fatalf("run after clear: %v", err)
	}
}

func TestUnresolvedBranch(t *testing.T) {
	ctx := ir.NewContext()
	b := testkit.NewFunc(ctx, "f", testkit.IntSig(0))
	entry := b.Block()
	then := b.Block()
	els := b.Block()
	cond := b.Const(entry, 1)
	b.RawBranch(entry, cond, then, els)
	b.Return(then, b.Const(then, 1))
	b.Return(els, b.Const(els, 2))

	itp := interp.New(ctx, interp.Options{})
	_, err := itp.Run(b.Fn)
	if !interp.IsCode(err, interp.CodeUnresolvedBranch) {
		t.Fatalf("got %v, want CodeUnresolvedBranch", err)
	}
}

func TestUnboundValueRead(t *testing.T) {
	ctx := ir.NewContext()
	b := testkit.NewFunc(ctx, "f", testkit.IntSig(0))
	entry := b.Block()
	sum := b.Add(entry, ir.Synthetic(0, testkit.TInt), b.Const(entry, 1))
	b.Return(entry, sum)

	itp := interp.New(ctx, interp.Options{})
	_, err := itp.Run(b.Fn)
	if !interp.IsCode(err, interp.CodeUnboundValue) {
		t.Fatalf("got %v, want CodeUnboundValue", err)
	}
}

func TestTypeMismatch(t *testing.T) {
	ctx := ir.NewContext()
	fn := buildDouble(ctx)
	itp := interp.New(ctx, interp.Options{})
	_, err := itp.Run(fn, "not an int")
	if !interp.IsCode(err, interp.CodeTypeMismatch) {
		t.Fatalf("got %v, want CodeTypeMismatch", err)
	}
}

func TestEntryArityMismatch(t *testing.T) {
	ctx := ir.NewContext()
	fn := buildDouble(ctx)
	itp := interp.New(ctx, interp.Options{})
	_, err := itp.Run(fn)
	if !interp.IsCode(err, interp.CodeArity) {
		t.Fatalf("got %v, want CodeArity", err)
	}
}
