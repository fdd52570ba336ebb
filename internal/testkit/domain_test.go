package testkit

import (
	"math"
	"testing"

	"tessera/internal/lattice"
)

var allSigns = []Sign{
	SignBottom, SignNeg, SignZero, SignPos,
	SignNeg | SignZero, SignNeg | SignPos, SignZero | SignPos, SignTop,
}

func TestSignLatticeLaws(t *testing.T) {
	for _, a := range allSigns {
		for _, b := range allSigns {
			j := a.Join(b)
			if j != b.Join(a) {
				t.Fatalf("join not commutative at %s, %s", a, b)
			}
			if !a.SubsetEq(j) || !b.SubsetEq(j) {
				t.Fatalf("join not an upper bound at %s, %s", a, b)
			}
			m := a.Meet(b)
			if !m.SubsetEq(a) || !m.SubsetEq(b) {
				t.Fatalf("meet not a lower bound at %s, %s", a, b)
			}
			if a.SubsetEq(b) && a.Join(b) != b {
				t.Fatalf("order inconsistent with join at %s, %s", a, b)
			}
		}
		if !SignBottom.SubsetEq(a) || !a.SubsetEq(SignTop) {
			t.Fatalf("bounds violated at %s", a)
		}
	}
}

func TestSignOf(t *testing.T) {
	if SignOf(-3) != SignNeg || SignOf(0) != SignZero || SignOf(7) != SignPos {
		t.Fatalf("abstraction of concrete integers is wrong")
	}
}

func TestAddSigns(t *testing.T) {
	cases := []struct {
		x, y, want Sign
	}{
		{SignPos, SignPos, SignPos},
		{SignNeg, SignNeg, SignNeg},
		{SignZero, SignPos, SignPos},
		{SignZero, SignZero, SignZero},
		{SignNeg, SignPos, SignTop},
		{SignBottom, SignTop, SignBottom},
		{SignTop, SignPos, SignTop},
		{SignNeg | SignZero, SignZero, SignNeg | SignZero},
	}
	for _, c := range cases {
		if got := AddSigns(c.x, c.y); got != c.want {
			t.Fatalf("AddSigns(%s, %s) = %s, want %s", c.x, c.y, got, c.want)
		}
	}
	// Soundness against the concretization on a small grid.
	for _, x := range []int64{-2, -1, 0, 1, 2} {
		for _, y := range []int64{-2, -1, 0, 1, 2} {
			if !SignOf(x + y).SubsetEq(AddSigns(SignOf(x), SignOf(y))) {
				t.Fatalf("abstract add misses %d + %d", x, y)
			}
		}
	}
}

func TestSignWideningContract(t *testing.T) {
	if err := lattice.CheckWidening(allSigns); err != nil {
		t.Fatalf("sign widening: %v", err)
	}
}

func TestSignNarrowingContract(t *testing.T) {
	if err := lattice.CheckNarrowing(allSigns); err != nil {
		t.Fatalf("sign narrowing: %v", err)
	}
}

func TestIntervalOrder(t *testing.T) {
	if !IntervalBottom().SubsetEq(IntervalOf(3)) {
		t.Fatalf("bottom below everything")
	}
	if !IntervalOf(3).SubsetEq(IntervalRange(0, 5)) {
		t.Fatalf("[3,3] fits in [0,5]")
	}
	if IntervalRange(0, 5).SubsetEq(IntervalOf(3)) {
		t.Fatalf("[0,5] does not fit in [3,3]")
	}
	if !IntervalRange(0, 5).SubsetEq(IntervalTop()) {
		t.Fatalf("everything below top")
	}
	if !IntervalRange(5, 0).Empty {
		t.Fatalf("inverted bounds must collapse to bottom")
	}
}

func TestIntervalJoinMeet(t *testing.T) {
	a := IntervalRange(0, 5)
	b := IntervalRange(3, 9)
	if a.Join(b) != IntervalRange(0, 9) {
		t.Fatalf("join = %s", a.Join(b))
	}
	if a.Meet(b) != IntervalRange(3, 5) {
		t.Fatalf("meet = %s", a.Meet(b))
	}
	disjoint := IntervalRange(10, 20).Meet(IntervalRange(0, 5))
	if !disjoint.Empty {
		t.Fatalf("disjoint meet = %s, want bottom", disjoint)
	}
	if a.Join(IntervalBottom()) != a || IntervalBottom().Join(a) != a {
		t.Fatalf("bottom is not a join identity")
	}
}

func TestIntervalWideningJumpsToInfinity(t *testing.T) {
	w := IntervalRange(0, 10).Widen(IntervalRange(0, 11))
	if w.Hi != math.MaxInt64 || w.Lo != 0 {
		t.Fatalf("unstable upper bound widened to %s", w)
	}
	w = IntervalRange(0, 10).Widen(IntervalRange(-1, 10))
	if w.Lo != math.MinInt64 || w.Hi != 10 {
		t.Fatalf("unstable lower bound widened to %s", w)
	}
	if IntervalRange(0, 10).Widen(IntervalRange(2, 8)) != IntervalRange(0, 10) {
		t.Fatalf("stable bounds must not move")
	}
}

func TestIntervalNarrowingRecoversBounds(t *testing.T) {
	wide := Interval{Lo: math.MinInt64, Hi: 10}
	n := wide.Narrow(IntervalRange(0, 10))
	if n != IntervalRange(0, 10) {
		t.Fatalf("narrow = %s, want [0, 10]", n)
	}
	// Finite bounds are already as tight as narrowing may go.
	if IntervalRange(0, 10).Narrow(IntervalRange(3, 7)) != IntervalRange(0, 10) {
		t.Fatalf("narrowing moved a finite bound")
	}
}

func TestIntervalWideningContract(t *testing.T) {
	seq := []Interval{
		IntervalBottom(),
		IntervalOf(0),
		IntervalRange(0, 1),
		IntervalRange(-1, 2),
		IntervalRange(-100, 100),
		IntervalTop(),
	}
	if err := lattice.CheckWidening(seq); err != nil {
		t.Fatalf("interval widening: %v", err)
	}
}

func TestIntervalNarrowingContract(t *testing.T) {
	seq := []Interval{
		IntervalTop(),
		Interval{Lo: math.MinInt64, Hi: 10},
		Interval{Lo: 0, Hi: math.MaxInt64},
		IntervalRange(0, 10),
	}
	if err := lattice.CheckNarrowing(seq); err != nil {
		t.Fatalf("interval narrowing: %v", err)
	}
}

func TestAddIntervals(t *testing.T) {
	if AddIntervals(IntervalRange(0, 5), IntervalRange(1, 2)) != IntervalRange(1, 7) {
		t.Fatalf("finite add wrong")
	}
	if !AddIntervals(IntervalBottom(), IntervalOf(1)).Empty {
		t.Fatalf("bottom must absorb")
	}
	sat := AddIntervals(IntervalOf(math.MaxInt64), IntervalOf(1))
	if sat.Hi != math.MaxInt64 {
		t.Fatalf("overflow must saturate, got %s", sat)
	}
	inf := AddIntervals(Interval{Lo: math.MinInt64, Hi: 0}, IntervalOf(-5))
	if inf.Lo != math.MinInt64 || inf.Hi != -5 {
		t.Fatalf("infinite bound add = %s", inf)
	}
}
