package testkit

import (
	"fmt"

	"tessera/internal/absint"
	"tessera/internal/dialect"
	"tessera/internal/ir"
	"tessera/internal/lattice"
	"tessera/internal/testkit/cf"
)

// DomainOps is what a numeric domain must supply for the test dialect's
// abstract semantics: abstraction of constants and of addition.
type DomainOps[A lattice.AbstractValue[A]] interface {
	Bottom() A
	Top() A
	Const(k int64) A
	Add(x, y A) A
}

// SignOps drives the Sign domain.
type SignOps struct{}

func (SignOps) Bottom() Sign       { return SignBottom }
func (SignOps) Top() Sign          { return SignTop }
func (SignOps) Const(k int64) Sign { return SignOf(k) }
func (SignOps) Add(x, y Sign) Sign { return AddSigns(x, y) }

// IntervalOps drives the Interval domain.
type IntervalOps struct{}

func (IntervalOps) Bottom() Interval           { return IntervalBottom() }
func (IntervalOps) Top() Interval              { return IntervalTop() }
func (IntervalOps) Const(k int64) Interval     { return IntervalOf(k) }
func (IntervalOps) Add(x, y Interval) Interval { return AddIntervals(x, y) }

// Analysis implements absint.Semantics for the test dialect over any
// DomainOps domain. Unknown pure instructions degrade to top for their
// results; terminators fan out to every syntactic successor.
type Analysis[A lattice.AbstractValue[A]] struct {
	Ops DomainOps[A]
}

// Bottom implements absint.Semantics.
func (a Analysis[A]) Bottom() A { return a.Ops.Bottom() }

// Transfer implements absint.Semantics.
func (a Analysis[A]) Transfer(_ *ir.Context, stmt *ir.Statement, env *absint.Env[A]) error {
	switch in := stmt.Info.(type) {
	case Const:
		env.Set(in.Out, a.Ops.Const(in.K))
	case Add:
		env.Set(in.Out, a.Ops.Add(env.Get(in.X), env.Get(in.Y)))
	default:
		for _, r := range dialect.ResultsOf(stmt.Info) {
			env.Set(r, a.Ops.Top())
		}
	}
	return nil
}

// FlowOf implements absint.Semantics. The concrete interpreter picks one
// branch edge; here both of a branch's edges flow.
func (a Analysis[A]) FlowOf(_ *ir.Context, stmt *ir.Statement, env *absint.Env[A]) (absint.Flow[A], error) {
	if j, ok := cf.AsJump(stmt.Info); ok {
		return absint.Flow[A]{Edges: []absint.Edge[A]{{Target: j.Target, Args: evalAll(env, j.Args)}}}, nil
	}
	if b, ok := cf.AsBranch(stmt.Info); ok {
		return absint.Flow[A]{Edges: []absint.Edge[A]{
			{Target: b.Then, Args: evalAll(env, b.ThenArgs)},
			{Target: b.Else, Args: evalAll(env, b.ElseArgs)},
		}}, nil
	}
	if t, ok := cf.AsReturn(stmt.Info); ok {
		ret := a.Ops.Bottom()
		if t.HasValue {
			ret = env.Get(t.Value)
		}
		return absint.Flow[A]{Return: &ret}, nil
	}
	return absint.Flow[A]{}, fmt.Errorf("testkit: no abstract flow for terminator %s", stmt.Info.OpName())
}

// CallOf implements absint.Semantics.
func (a Analysis[A]) CallOf(_ *ir.Context, stmt *ir.Statement, env *absint.Env[A]) (*absint.CallSite[A], error) {
	c, ok := cf.AsCall(stmt.Info)
	if !ok {
		return nil, nil
	}
	return &absint.CallSite[A]{Callee: c.Callee, Args: evalAll(env, c.Args), Result: c.Out}, nil
}

func evalAll[A lattice.AbstractValue[A]](env *absint.Env[A], values []ir.Value) []A {
	if len(values) == 0 {
		return nil
	}
	out := make([]A, len(values))
	for i, v := range values {
		out[i] = env.Get(v)
	}
	return out
}
