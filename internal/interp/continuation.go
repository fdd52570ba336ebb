// Package interp provides concrete, stack-based execution of IR functions.
//
// The interpreter owns all mutable run state (frames, bindings, fuel,
// breakpoints); the IR context is borrowed read-only for the whole run. Each
// statement's dialect implements Interpretable; the returned Continuation is
// the only way an instruction transfers control.
package interp

import "tessera/internal/ir"

// ContKind enumerates continuation kinds.
type ContKind uint8

const (
	// ContNext advances to the next statement in the current block.
	ContNext ContKind = iota + 1
	// ContJump transfers to a block, supplying its arguments.
	ContJump
	// ContReturn pops the current frame.
	ContReturn
	// ContCall pushes a frame for a callee.
	ContCall
	// ContUnresolved marks a branch whose condition nobody evaluated.
	// The generic control-flow layer never picks a successor itself; a
	// wrapping dialect must resolve the branch into a ContJump before it
	// reaches the loop. The loop turns this into CodeUnresolvedBranch.
	ContUnresolved
)

// JumpCont carries a resolved control transfer.
type JumpCont struct {
	Target ir.BlockID
	Args   []any
}

// ReturnCont carries a function result.
type ReturnCont struct {
	HasValue bool
	Value    any
}

// CallCont describes a callee frame to push: the function, its concrete
// arguments, and the caller-side SSA value that receives the return.
type CallCont struct {
	Callee ir.FuncID
	Args   []any
	Result ir.Value
}

// Continuation is the control-transfer value returned by a dispatched
// statement, in the kind-plus-payload shape the rest of the IR uses.
type Continuation struct {
	Kind   ContKind
	Jump   JumpCont
	Return ReturnCont
	Call   CallCont
}

// Next continues with the following statement.
func Next() Continuation {
	return Continuation{Kind: ContNext}
}

// Jump transfers to target, binding its block arguments to args.
func Jump(target ir.BlockID, args ...any) Continuation {
	return Continuation{Kind: ContJump, Jump: JumpCont{Target: target, Args: args}}
}

// Return pops the frame, producing value.
func Return(value any) Continuation {
	return Continuation{Kind: ContReturn, Return: ReturnCont{HasValue: true, Value: value}}
}

// ReturnVoid pops the frame without a value.
func ReturnVoid() Continuation {
	return Continuation{Kind: ContReturn}
}

// Call pushes a callee frame.
func Call(c CallCont) Continuation {
	return Continuation{Kind: ContCall, Call: c}
}

// Unresolved reports a branch the dispatching dialect could not decide.
func Unresolved() Continuation {
	return Continuation{Kind: ContUnresolved}
}

// Interpretable is the concrete-execution hook a dialect implements per
// instruction type. The instruction may read and write SSA bindings through
// the interpreter.
type Interpretable interface {
	Interpret(itp *Interpreter) (Continuation, error)
}

// CallSemantics is implemented by instructions that perform calls: it
// resolves the callee and assembles the callee frame inputs. A call
// instruction's Interpret typically delegates to it and wraps the result in
// a Call continuation.
type CallSemantics interface {
	PrepareCall(itp *Interpreter) (CallCont, error)
}
