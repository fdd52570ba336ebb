// Package testkit provides the example dialect, abstract domains and
// function-building helpers the test suite and the demo run on.
//
// The instruction set is a composite: the generic control-flow set in
// testkit/cf, wrapped by a small arithmetic set. CondBranch demonstrates the
// wrapping contract: it embeds cf.Branch, forwards every structural
// capability through Unwrap, and supplies the condition semantics the
// generic branch deliberately lacks.
package testkit

import (
	"tessera/internal/dialect"
	"tessera/internal/interp"
	"tessera/internal/ir"
	"tessera/internal/testkit/cf"
)

// Type universe of the test dialect.
const (
	TAny  ir.TypeID = 1
	TInt  ir.TypeID = 2
	TBool ir.TypeID = 3
	TNone ir.TypeID = 4 // bottom: no value inhabits it
)

// FlatTypes is the flat type lattice: TNone below the concrete types, TAny
// above them, no ordering between int and bool.
type FlatTypes struct{}

// JoinTypes implements dialect.TypeLattice.
func (FlatTypes) JoinTypes(a, b ir.TypeID) ir.TypeID {
	switch {
	case a == b:
		return a
	case a == TNone:
		return b
	case b == TNone:
		return a
	default:
		return TAny
	}
}

// MeetTypes implements dialect.TypeLattice.
func (FlatTypes) MeetTypes(a, b ir.TypeID) ir.TypeID {
	switch {
	case a == b:
		return a
	case a == TAny:
		return b
	case b == TAny:
		return a
	default:
		return TNone
	}
}

// IsSubtype implements dialect.TypeLattice.
func (FlatTypes) IsSubtype(a, b ir.TypeID) bool {
	return a == b || a == TNone || b == TAny
}

// TopType implements dialect.TypeLattice.
func (FlatTypes) TopType() ir.TypeID { return TAny }

// BottomType implements dialect.TypeLattice.
func (FlatTypes) BottomType() ir.TypeID { return TNone }

// TestDialect binds the composite instruction set to FlatTypes.
type TestDialect struct{}

// Name implements dialect.Dialect.
func (TestDialect) Name() string { return "test" }

// Types implements dialect.Dialect.
func (TestDialect) Types() dialect.TypeLattice { return FlatTypes{} }

// Const materializes an integer constant.
type Const struct {
	K   int64
	Out ir.Value
}

// OpName implements ir.Instruction.
func (Const) OpName() string { return "test.const" }

// IsConstant marks Const as compile-time constant.
func (Const) IsConstant() bool { return true }

// IsPure marks Const as side-effect free.
func (Const) IsPure() bool { return true }

// Results returns the produced value.
func (c Const) Results() []ir.Value { return []ir.Value{c.Out} }

// Interpret binds the constant.
func (c Const) Interpret(itp *interp.Interpreter) (interp.Continuation, error) {
	itp.Write(c.Out, c.K)
	return interp.Next(), nil
}

// RemapHandles implements ir.Remappable.
func (c Const) RemapHandles(r *ir.Remap) ir.Instruction {
	c.Out = r.Value(c.Out)
	return c
}

// Add sums two integer operands.
type Add struct {
	X, Y ir.Value
	Out  ir.Value
}

// OpName implements ir.Instruction.
func (Add) OpName() string { return "test.add" }

// IsPure marks Add as side-effect free.
func (Add) IsPure() bool { return true }

// Arguments returns the operands.
func (a Add) Arguments() []ir.Value { return []ir.Value{a.X, a.Y} }

// Results returns the produced value.
func (a Add) Results() []ir.Value { return []ir.Value{a.Out} }

// Interpret reads both operands as int64 and binds their sum.
func (a Add) Interpret(itp *interp.Interpreter) (interp.Continuation, error) {
	x, err := interp.ReadAs[int64](itp, a.X)
	if err != nil {
		return interp.Continuation{}, err
	}
	y, err := interp.ReadAs[int64](itp, a.Y)
	if err != nil {
		return interp.Continuation{}, err
	}
	itp.Write(a.Out, x+y)
	return interp.Next(), nil
}

// RemapHandles implements ir.Remappable.
func (a Add) RemapHandles(r *ir.Remap) ir.Instruction {
	a.X = r.Value(a.X)
	a.Y = r.Value(a.Y)
	a.Out = r.Value(a.Out)
	return a
}

// CondBranch wraps the generic cf.Branch with concrete condition semantics:
// any nonzero int64 takes the then edge. Successors, arguments and
// terminator-ness all forward to the wrapped branch through Unwrap.
type CondBranch struct {
	Br cf.Branch
}

// OpName implements ir.Instruction.
func (CondBranch) OpName() string { return "test.condbr" }

// Unwrap implements ir.Wrapper, forwarding unoverridden capabilities.
func (c CondBranch) Unwrap() ir.Instruction { return c.Br }

// Interpret resolves the wrapped branch into a jump.
func (c CondBranch) Interpret(itp *interp.Interpreter) (interp.Continuation, error) {
	cond, err := interp.ReadAs[int64](itp, c.Br.Cond)
	if err != nil {
		return interp.Continuation{}, err
	}
	target, args := c.Br.Else, c.Br.ElseArgs
	if cond != 0 {
		target, args = c.Br.Then, c.Br.ThenArgs
	}
	vals := make([]any, len(args))
	for i, v := range args {
		x, err := itp.Read(v)
		if err != nil {
			return interp.Continuation{}, err
		}
		vals[i] = x
	}
	return interp.Jump(target, vals...), nil
}

// RemapHandles implements ir.Remappable.
func (c CondBranch) RemapHandles(r *ir.Remap) ir.Instruction {
	c.Br = c.Br.RemapHandles(r).(cf.Branch)
	return c
}
