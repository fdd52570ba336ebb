// Package cf is the generic control-flow instruction set: jumps, returns,
// calls and an intentionally unresolved conditional branch.
//
// It is an example implementer of the dialect capability contract, not part
// of the interpretation core. Branch deliberately has no concrete semantics
// of its own: evaluating the condition and choosing a successor belongs to
// whichever wrapping dialect embeds it (see testkit.CondBranch).
package cf

import (
	"tessera/internal/dialect"
	"tessera/internal/interp"
	"tessera/internal/ir"
)

// Jump transfers control unconditionally, supplying the target's block
// arguments.
type Jump struct {
	Target ir.BlockID
	Args   []ir.Value
}

// OpName implements ir.Instruction.
func (Jump) OpName() string { return "cf.jump" }

// IsTerminator marks Jump as a block terminator.
func (Jump) IsTerminator() bool { return true }

// Arguments returns the SSA operands forwarded to the target.
func (j Jump) Arguments() []ir.Value { return j.Args }

// Successors returns the jump target.
func (j Jump) Successors() []ir.BlockID { return []ir.BlockID{j.Target} }

// Interpret reads the outgoing arguments and jumps.
func (j Jump) Interpret(itp *interp.Interpreter) (interp.Continuation, error) {
	vals, err := readAll(itp, j.Args)
	if err != nil {
		return interp.Continuation{}, err
	}
	return interp.Jump(j.Target, vals...), nil
}

// RemapHandles implements ir.Remappable.
func (j Jump) RemapHandles(r *ir.Remap) ir.Instruction {
	j.Target = r.Block(j.Target)
	j.Args = remapValues(r, j.Args)
	return j
}

// Return pops the current frame, optionally producing a value.
type Return struct {
	Value    ir.Value
	HasValue bool
}

// OpName implements ir.Instruction.
func (Return) OpName() string { return "cf.return" }

// IsTerminator marks Return as a block terminator.
func (Return) IsTerminator() bool { return true }

// Arguments returns the returned operand, if any.
func (t Return) Arguments() []ir.Value {
	if !t.HasValue {
		return nil
	}
	return []ir.Value{t.Value}
}

// Interpret reads the operand and returns from the frame.
func (t Return) Interpret(itp *interp.Interpreter) (interp.Continuation, error) {
	if !t.HasValue {
		return interp.ReturnVoid(), nil
	}
	v, err := itp.Read(t.Value)
	if err != nil {
		return interp.Continuation{}, err
	}
	return interp.Return(v), nil
}

// RemapHandles implements ir.Remappable.
func (t Return) RemapHandles(r *ir.Remap) ir.Instruction {
	t.Value = r.Value(t.Value)
	return t
}

// Branch is the conditional-branch stub. It declares both successors and the
// condition operand but never chooses: the generic control-flow layer has no
// notion of truthiness. A wrapping dialect that knows the condition's value
// semantics must resolve it into a jump before the loop sees it.
type Branch struct {
	Cond     ir.Value
	Then     ir.BlockID
	Else     ir.BlockID
	ThenArgs []ir.Value
	ElseArgs []ir.Value
}

// OpName implements ir.Instruction.
func (Branch) OpName() string { return "cf.branch" }

// IsTerminator marks Branch as a block terminator.
func (Branch) IsTerminator() bool { return true }

// Arguments returns the condition and every edge operand.
func (b Branch) Arguments() []ir.Value {
	args := make([]ir.Value, 0, 1+len(b.ThenArgs)+len(b.ElseArgs))
	args = append(args, b.Cond)
	args = append(args, b.ThenArgs...)
	args = append(args, b.ElseArgs...)
	return args
}

// Successors returns both syntactic targets.
func (b Branch) Successors() []ir.BlockID { return []ir.BlockID{b.Then, b.Else} }

// Interpret reports the branch as unresolved; resolution is the wrapping
// dialect's job.
func (b Branch) Interpret(*interp.Interpreter) (interp.Continuation, error) {
	return interp.Unresolved(), nil
}

// RemapHandles implements ir.Remappable.
func (b Branch) RemapHandles(r *ir.Remap) ir.Instruction {
	b.Cond = r.Value(b.Cond)
	b.Then = r.Block(b.Then)
	b.Else = r.Block(b.Else)
	b.ThenArgs = remapValues(r, b.ThenArgs)
	b.ElseArgs = remapValues(r, b.ElseArgs)
	return b
}

// Call invokes a specialized function, binding its entry arguments.
type Call struct {
	Callee ir.FuncID
	Args   []ir.Value
	Out    ir.Value
}

// OpName implements ir.Instruction.
func (Call) OpName() string { return "cf.call" }

// Arguments returns the call operands.
func (c Call) Arguments() []ir.Value { return c.Args }

// Results returns the value bound to the callee's return.
func (c Call) Results() []ir.Value { return []ir.Value{c.Out} }

// PrepareCall implements interp.CallSemantics: resolve the callee and
// assemble the frame inputs.
func (c Call) PrepareCall(itp *interp.Interpreter) (interp.CallCont, error) {
	vals, err := readAll(itp, c.Args)
	if err != nil {
		return interp.CallCont{}, err
	}
	return interp.CallCont{Callee: c.Callee, Args: vals, Result: c.Out}, nil
}

// Interpret pushes the callee frame.
func (c Call) Interpret(itp *interp.Interpreter) (interp.Continuation, error) {
	call, err := c.PrepareCall(itp)
	if err != nil {
		return interp.Continuation{}, err
	}
	return interp.Call(call), nil
}

// RemapHandles implements ir.Remappable.
func (c Call) RemapHandles(r *ir.Remap) ir.Instruction {
	c.Callee = r.Func(c.Callee)
	c.Args = remapValues(r, c.Args)
	c.Out = r.Value(c.Out)
	return c
}

// AsJump finds a Jump on the instruction or anything it wraps.
func AsJump(in dialect.Instruction) (Jump, bool) { return as[Jump](in) }

// AsReturn finds a Return on the instruction or anything it wraps.
func AsReturn(in dialect.Instruction) (Return, bool) { return as[Return](in) }

// AsBranch finds a Branch on the instruction or anything it wraps.
func AsBranch(in dialect.Instruction) (Branch, bool) { return as[Branch](in) }

// AsCall finds a Call on the instruction or anything it wraps.
func AsCall(in dialect.Instruction) (Call, bool) { return as[Call](in) }

func as[T dialect.Instruction](in dialect.Instruction) (T, bool) {
	for in != nil {
		if t, ok := in.(T); ok {
			return t, true
		}
		w, ok := in.(ir.Wrapper)
		if !ok {
			break
		}
		in = w.Unwrap()
	}
	var zero T
	return zero, false
}

func readAll(itp *interp.Interpreter, values []ir.Value) ([]any, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		x, err := itp.Read(v)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

func remapValues(r *ir.Remap, values []ir.Value) []ir.Value {
	for i, v := range values {
		values[i] = r.Value(v)
	}
	return values
}
