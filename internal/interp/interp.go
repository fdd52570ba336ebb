package interp

import (
	"tessera/internal/ir"
	"tessera/internal/trace"
)

// DefaultFuel is the step budget used when Options leaves Fuel unset.
const DefaultFuel = 1 << 20

// Options configures a run.
type Options struct {
	// Fuel is the number of statement dispatches allowed before the run
	// halts with CodeFuelExhausted. Zero means DefaultFuel; a negative
	// value means an explicit zero budget.
	Fuel int

	// Tracer receives step events; trace.Nop when nil.
	Tracer trace.Tracer
}

// Interpreter executes IR functions concretely. It borrows the context
// read-only; all mutable state lives in the frame stack.
type Interpreter struct {
	ctx    *ir.Context
	tracer trace.Tracer

	stack []*Frame
	fuel  int
	steps int

	breakpoints map[ir.StmtID]bool
	skipBreak   bool // one dispatch of grace after a pause

	done   bool
	result any
}

// New creates an interpreter over ctx.
func New(ctx *ir.Context, opts Options) *Interpreter {
	fuel := opts.Fuel
	switch {
	case fuel == 0:
		fuel = DefaultFuel
	case fuel < 0:
		fuel = 0
	}
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	return &Interpreter{
		ctx:         ctx,
		tracer:      tr,
		fuel:        fuel,
		breakpoints: make(map[ir.StmtID]bool),
	}
}

// Context returns the IR context being executed.
func (itp *Interpreter) Context() *ir.Context { return itp.ctx }

// Steps reports the number of statements dispatched so far.
func (itp *Interpreter) Steps() int { return itp.steps }

// Depth reports the current frame stack depth.
func (itp *Interpreter) Depth() int { return len(itp.stack) }

// SetBreakpoint arms a breakpoint on a statement.
func (itp *Interpreter) SetBreakpoint(stmt ir.StmtID) { itp.breakpoints[stmt] = true }

// ClearBreakpoint disarms a breakpoint.
func (itp *Interpreter) ClearBreakpoint(stmt ir.StmtID) { delete(itp.breakpoints, stmt) }

// At reports the statement the interpreter would dispatch next. Useful after
// a breakpoint pause.
func (itp *Interpreter) At() ir.StmtID {
	if len(itp.stack) == 0 {
		return ir.NoStmtID
	}
	return itp.top().Stmt
}

// Read returns the binding of an SSA value in the current frame.
func (itp *Interpreter) Read(v ir.Value) (any, error) {
	x, ok := itp.top().Env[v]
	if !ok {
		return nil, Errf(CodeUnboundValue, itp.At(), "read of unbound %s value", v.Kind)
	}
	return x, nil
}

// Write binds an SSA value in the current frame.
func (itp *Interpreter) Write(v ir.Value, x any) {
	itp.top().Env[v] = x
}

// ReadAs reads a binding and checks its dynamic type.
func ReadAs[T any](itp *Interpreter, v ir.Value) (T, error) {
	var zero T
	x, err := itp.Read(v)
	if err != nil {
		return zero, err
	}
	t, ok := x.(T)
	if !ok {
		return zero, Errf(CodeTypeMismatch, itp.At(), "binding holds %T, want %T", x, zero)
	}
	return t, nil
}

// Run executes fn to completion with the entry block arguments bound to
// args. Returns the function's return value, or ErrPaused if a breakpoint
// halted the run (Resume continues it).
func (itp *Interpreter) Run(fn ir.FuncID, args ...any) (any, error) {
	frame, err := newFrame(itp.ctx, fn, args, ir.Value{})
	if err != nil {
		return nil, err
	}
	itp.stack = itp.stack[:0]
	itp.stack = append(itp.stack, frame)
	itp.done = false
	itp.result = nil
	return itp.loop()
}

// Resume continues a run paused at a breakpoint.
func (itp *Interpreter) Resume() (any, error) {
	if itp.done {
		return itp.result, nil
	}
	itp.skipBreak = true
	return itp.loop()
}

func (itp *Interpreter) loop() (any, error) {
	for !itp.done && len(itp.stack) > 0 {
		if err := itp.Step(); err != nil {
			return nil, err
		}
	}
	return itp.result, nil
}

// Step dispatches exactly one statement: breakpoint check, fuel check,
// dialect dispatch, continuation application.
func (itp *Interpreter) Step() error {
	frame := itp.top()
	if !frame.Stmt.IsValid() {
		return Errf(CodeBadContinuation, ir.NoStmtID, "bb%d fell through without a terminator", frame.Block)
	}

	if itp.breakpoints[frame.Stmt] && !itp.skipBreak {
		itp.tracer.Eventf(trace.LevelStep, "break at s%d", frame.Stmt)
		return ErrPaused
	}
	itp.skipBreak = false

	if itp.fuel == 0 {
		return Errf(CodeFuelExhausted, frame.Stmt, "fuel exhausted after %d steps", itp.steps)
	}
	itp.fuel--
	itp.steps++

	stmt := itp.ctx.Stmt(frame.Stmt)
	sem := interpretable(stmt.Info)
	if sem == nil {
		return Errf(CodeNotInterpretable, stmt.ID, "instruction %s has no concrete semantics", stmt.Info.OpName())
	}
	itp.tracer.Eventf(trace.LevelStep, "dispatch s%d %s", stmt.ID, stmt.Info.OpName())

	cont, err := sem.Interpret(itp)
	if err != nil {
		return err
	}
	return itp.apply(stmt, cont)
}

func (itp *Interpreter) apply(stmt *ir.Statement, cont Continuation) error {
	frame := itp.top()
	switch cont.Kind {
	case ContNext:
		frame.Stmt = stmt.Next
		return nil

	case ContJump:
		itp.tracer.Eventf(trace.LevelDebug, "jump bb%d -> bb%d", frame.Block, cont.Jump.Target)
		return frame.enter(itp.ctx, cont.Jump.Target, cont.Jump.Args)

	case ContReturn:
		itp.stack = itp.stack[:len(itp.stack)-1]
		if len(itp.stack) == 0 {
			itp.done = true
			itp.result = cont.Return.Value
			return nil
		}
		if frame.ReturnTo.IsValid() {
			if !cont.Return.HasValue {
				return Errf(CodeBadContinuation, stmt.ID, "void return into a result binding")
			}
			itp.top().Env[frame.ReturnTo] = cont.Return.Value
		}
		return nil

	case ContCall:
		if !cont.Call.Callee.IsValid() {
			return Errf(CodeNoCallTarget, stmt.ID, "call has no resolvable target")
		}
		// Continue after the call statement once the callee returns.
		frame.Stmt = stmt.Next
		callee, err := newFrame(itp.ctx, cont.Call.Callee, cont.Call.Args, cont.Call.Result)
		if err != nil {
			return err
		}
		itp.tracer.Eventf(trace.LevelDebug, "call fn%d depth=%d", cont.Call.Callee, len(itp.stack)+1)
		itp.stack = append(itp.stack, callee)
		return nil

	case ContUnresolved:
		return Errf(CodeUnresolvedBranch, stmt.ID, "branch %s reached the loop undecided", stmt.Info.OpName())

	default:
		return Errf(CodeBadContinuation, stmt.ID, "continuation kind %d", cont.Kind)
	}
}

func (itp *Interpreter) top() *Frame {
	return itp.stack[len(itp.stack)-1]
}

// interpretable finds concrete semantics on the instruction or anything it
// wraps.
func interpretable(in ir.Instruction) Interpretable {
	for in != nil {
		if sem, ok := in.(Interpretable); ok {
			return sem
		}
		w, ok := in.(ir.Wrapper)
		if !ok {
			return nil
		}
		in = w.Unwrap()
	}
	return nil
}
