package absint

import (
	"tessera/internal/ir"
	"tessera/internal/lattice"
)

// Env is the abstract binding environment for one block visit: SSA values to
// domain values. Reads of unbound values yield the domain's bottom.
type Env[A lattice.AbstractValue[A]] struct {
	bindings map[ir.Value]A
	bottom   A
}

// NewEnv creates an environment with the given least element.
func NewEnv[A lattice.AbstractValue[A]](bottom A) *Env[A] {
	return &Env[A]{bindings: make(map[ir.Value]A, 8), bottom: bottom}
}

// Get returns the abstract value bound to v, bottom when unbound.
func (e *Env[A]) Get(v ir.Value) A {
	if a, ok := e.bindings[v]; ok {
		return a
	}
	return e.bottom
}

// Set binds v to a.
func (e *Env[A]) Set(v ir.Value, a A) {
	e.bindings[v] = a
}

// Edge is one outgoing control-flow edge of a terminator with the abstract
// values flowing along it into the target's block arguments.
type Edge[A lattice.AbstractValue[A]] struct {
	Target ir.BlockID
	Args   []A
}

// Flow is the abstract evaluation of a terminator: every syntactically
// possible successor edge, plus the function result when the terminator
// returns. Where the concrete interpreter picks one branch, Flow fans out to
// all of them.
type Flow[A lattice.AbstractValue[A]] struct {
	Edges  []Edge[A]
	Return *A // non-nil when the terminator returns from the function
}

// CallSite describes a call statement abstractly: the callee, the abstract
// argument profile, and the SSA value receiving the summary result.
type CallSite[A lattice.AbstractValue[A]] struct {
	Callee ir.FuncID
	Args   []A
	Result ir.Value
}

// Semantics is the domain side of the dispatch protocol. One implementation
// per (dialect, domain) pair drives the engine over that dialect's
// instructions.
type Semantics[A lattice.AbstractValue[A]] interface {
	// Bottom returns the domain's least element.
	Bottom() A

	// Transfer applies the abstract effect of a non-terminator,
	// non-call statement to the environment.
	Transfer(ctx *ir.Context, stmt *ir.Statement, env *Env[A]) error

	// FlowOf evaluates a terminator. Implementations usually build edges
	// from dialect.SuccessorsOf and refine the argument values from env.
	FlowOf(ctx *ir.Context, stmt *ir.Statement, env *Env[A]) (Flow[A], error)

	// CallOf recognizes call statements. Returns nil for anything that is
	// not a call; the engine then falls back to Transfer.
	CallOf(ctx *ir.Context, stmt *ir.Statement, env *Env[A]) (*CallSite[A], error)
}
