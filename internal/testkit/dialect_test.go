package testkit

import (
	"testing"

	"tessera/internal/dialect"
	"tessera/internal/ir"
	"tessera/internal/testkit/cf"
)

func TestCondBranchForwardsCapabilities(t *testing.T) {
	cond := ir.Synthetic(0, TBool)
	arg := ir.Synthetic(1, TInt)
	br := CondBranch{Br: cf.Branch{
		Cond:     cond,
		Then:     ir.BlockID(2),
		Else:     ir.BlockID(3),
		ThenArgs: []ir.Value{arg},
	}}

	if !dialect.IsTerminator(br) {
		t.Fatalf("wrapped branch lost terminator-ness")
	}
	succ := dialect.SuccessorsOf(br)
	if len(succ) != 2 || succ[0] != ir.BlockID(2) || succ[1] != ir.BlockID(3) {
		t.Fatalf("SuccessorsOf = %v", succ)
	}
	args := dialect.ArgumentsOf(br)
	if len(args) != 2 || args[0] != cond || args[1] != arg {
		t.Fatalf("ArgumentsOf = %v", args)
	}
	if dialect.IsConstant(br) || dialect.IsPure(br) {
		t.Fatalf("branch must not claim constant or pure")
	}
	if got := dialect.RegionsOf(br); got != nil {
		t.Fatalf("RegionsOf = %v, want nil", got)
	}
}

func TestUnwrapFindsWrappedVariant(t *testing.T) {
	br := CondBranch{Br: cf.Branch{Then: ir.BlockID(4), Else: ir.BlockID(5)}}
	inner, ok := cf.AsBranch(br)
	if !ok || inner.Then != ir.BlockID(4) {
		t.Fatalf("AsBranch through wrapper = %+v, %v", inner, ok)
	}
	if _, ok := cf.AsJump(br); ok {
		t.Fatalf("found a jump inside a branch wrapper")
	}
}

func TestConstCapabilities(t *testing.T) {
	out := ir.Synthetic(0, TInt)
	c := Const{K: 5, Out: out}
	if !dialect.IsConstant(c) || !dialect.IsPure(c) {
		t.Fatalf("const must be constant and pure")
	}
	if dialect.IsTerminator(c) {
		t.Fatalf("const is not a terminator")
	}
	res := dialect.ResultsOf(c)
	if len(res) != 1 || res[0] != out {
		t.Fatalf("ResultsOf = %v", res)
	}
	if got := dialect.ArgumentsOf(c); got != nil {
		t.Fatalf("ArgumentsOf = %v, want nil", got)
	}
}

func TestAddCapabilities(t *testing.T) {
	a := Add{X: ir.Synthetic(0, TInt), Y: ir.Synthetic(1, TInt), Out: ir.Synthetic(2, TInt)}
	if dialect.IsConstant(a) {
		t.Fatalf("add is not constant")
	}
	if !dialect.IsPure(a) {
		t.Fatalf("add is pure")
	}
	if got := dialect.ArgumentsOf(a); len(got) != 2 {
		t.Fatalf("ArgumentsOf = %v", got)
	}
}

func TestFlatTypeLattice(t *testing.T) {
	var l FlatTypes

	if l.JoinTypes(TInt, TInt) != TInt {
		t.Fatalf("join not idempotent")
	}
	if l.JoinTypes(TInt, TBool) != TAny {
		t.Fatalf("unrelated types must join to top")
	}
	if l.JoinTypes(TNone, TBool) != TBool {
		t.Fatalf("bottom is not a join identity")
	}
	if l.MeetTypes(TInt, TBool) != TNone {
		t.Fatalf("unrelated types must meet to bottom")
	}
	if l.MeetTypes(TAny, TInt) != TInt {
		t.Fatalf("top is not a meet identity")
	}
	for _, typ := range []ir.TypeID{TNone, TInt, TBool, TAny} {
		if !l.IsSubtype(typ, typ) {
			t.Fatalf("subtyping not reflexive at %d", typ)
		}
		if !l.IsSubtype(l.BottomType(), typ) || !l.IsSubtype(typ, l.TopType()) {
			t.Fatalf("bounds violated at %d", typ)
		}
	}
	if l.IsSubtype(TInt, TBool) {
		t.Fatalf("int is not a subtype of bool")
	}
}
