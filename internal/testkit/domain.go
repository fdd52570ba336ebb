package testkit

import (
	"fmt"
	"math"
)

// Sign is the classic sign domain as a bitmask over {neg, zero, pos}.
// Height 3, so it is safe under the Never strategy.
type Sign uint8

const (
	// SignBottom is the empty set: no value reaches this point.
	SignBottom Sign = 0
	// SignNeg covers strictly negative values.
	SignNeg Sign = 1 << iota
	// SignZero covers zero.
	SignZero
	// SignPos covers strictly positive values.
	SignPos
	// SignTop covers everything.
	SignTop Sign = SignNeg | SignZero | SignPos
)

// SignOf abstracts a concrete integer.
func SignOf(k int64) Sign {
	switch {
	case k < 0:
		return SignNeg
	case k == 0:
		return SignZero
	default:
		return SignPos
	}
}

// Join implements lattice.Lattice.
func (s Sign) Join(other Sign) Sign { return s | other }

// Meet implements lattice.Lattice.
func (s Sign) Meet(other Sign) Sign { return s & other }

// SubsetEq implements lattice.Lattice.
func (s Sign) SubsetEq(other Sign) bool { return s&^other == 0 }

// Bottom implements lattice.Bounded.
func (Sign) Bottom() Sign { return SignBottom }

// Top implements lattice.Bounded.
func (Sign) Top() Sign { return SignTop }

// Widen joins; the domain is finite so widening never needs to jump.
func (s Sign) Widen(next Sign) Sign { return s | next }

// Narrow keeps the receiver (the default identity narrowing).
func (s Sign) Narrow(Sign) Sign { return s }

// String renders the mask as a subset of {-,0,+}.
func (s Sign) String() string {
	switch s {
	case SignBottom:
		return "⊥"
	case SignTop:
		return "⊤"
	}
	out := ""
	if s&SignNeg != 0 {
		out += "-"
	}
	if s&SignZero != 0 {
		out += "0"
	}
	if s&SignPos != 0 {
		out += "+"
	}
	return "{" + out + "}"
}

// AddSigns is the abstract addition table.
func AddSigns(x, y Sign) Sign {
	if x == SignBottom || y == SignBottom {
		return SignBottom
	}
	var out Sign
	for _, a := range [...]Sign{SignNeg, SignZero, SignPos} {
		if x&a == 0 {
			continue
		}
		for _, b := range [...]Sign{SignNeg, SignZero, SignPos} {
			if y&b == 0 {
				continue
			}
			out |= addSign(a, b)
		}
	}
	return out
}

func addSign(a, b Sign) Sign {
	switch {
	case a == SignZero:
		return b
	case b == SignZero:
		return a
	case a == b:
		return a
	default:
		// neg + pos can land anywhere.
		return SignTop
	}
}

// Interval is the integer interval domain with MinInt64/MaxInt64 standing in
// for the infinities. Ascending chains are unbounded, so analyses over it
// must widen.
type Interval struct {
	Lo, Hi int64
	Empty  bool
}

// IntervalBottom is the empty interval.
func IntervalBottom() Interval { return Interval{Empty: true} }

// IntervalTop is (-inf, +inf).
func IntervalTop() Interval { return Interval{Lo: math.MinInt64, Hi: math.MaxInt64} }

// IntervalOf is the singleton interval [k, k].
func IntervalOf(k int64) Interval { return Interval{Lo: k, Hi: k} }

// IntervalRange is [lo, hi]; inverted bounds mean the empty interval.
func IntervalRange(lo, hi int64) Interval {
	if lo > hi {
		return IntervalBottom()
	}
	return Interval{Lo: lo, Hi: hi}
}

// Join implements lattice.Lattice.
func (v Interval) Join(other Interval) Interval {
	if v.Empty {
		return other
	}
	if other.Empty {
		return v
	}
	return Interval{Lo: min(v.Lo, other.Lo), Hi: max(v.Hi, other.Hi)}
}

// Meet implements lattice.Lattice.
func (v Interval) Meet(other Interval) Interval {
	if v.Empty || other.Empty {
		return IntervalBottom()
	}
	return IntervalRange(max(v.Lo, other.Lo), min(v.Hi, other.Hi))
}

// SubsetEq implements lattice.Lattice.
func (v Interval) SubsetEq(other Interval) bool {
	if v.Empty {
		return true
	}
	if other.Empty {
		return false
	}
	return other.Lo <= v.Lo && v.Hi <= other.Hi
}

// Widen jumps unstable bounds straight to infinity, the classic interval
// widening that cuts every ascending chain to at most two steps per bound.
func (v Interval) Widen(next Interval) Interval {
	if v.Empty {
		return next
	}
	if next.Empty {
		return v
	}
	w := v
	if next.Lo < v.Lo {
		w.Lo = math.MinInt64
	}
	if next.Hi > v.Hi {
		w.Hi = math.MaxInt64
	}
	return w
}

// Narrow pulls infinite bounds back to the other operand's bounds.
func (v Interval) Narrow(next Interval) Interval {
	if v.Empty || next.Empty {
		return v
	}
	n := v
	if v.Lo == math.MinInt64 {
		n.Lo = next.Lo
	}
	if v.Hi == math.MaxInt64 {
		n.Hi = next.Hi
	}
	if n.Lo > n.Hi {
		return v
	}
	return n
}

// String renders the interval with ⊥/∞ shorthand.
func (v Interval) String() string {
	if v.Empty {
		return "⊥"
	}
	lo, hi := "-∞", "+∞"
	if v.Lo != math.MinInt64 {
		lo = fmt.Sprintf("%d", v.Lo)
	}
	if v.Hi != math.MaxInt64 {
		hi = fmt.Sprintf("%d", v.Hi)
	}
	return "[" + lo + ", " + hi + "]"
}

// AddIntervals is abstract addition with saturation at the infinities.
func AddIntervals(x, y Interval) Interval {
	if x.Empty || y.Empty {
		return IntervalBottom()
	}
	return Interval{Lo: satAdd(x.Lo, y.Lo), Hi: satAdd(x.Hi, y.Hi)}
}

func satAdd(a, b int64) int64 {
	if a == math.MinInt64 || b == math.MinInt64 {
		return math.MinInt64
	}
	if a == math.MaxInt64 || b == math.MaxInt64 {
		return math.MaxInt64
	}
	sum := a + b
	switch {
	case a > 0 && b > 0 && sum < 0:
		return math.MaxInt64
	case a < 0 && b < 0 && sum >= 0:
		return math.MinInt64
	default:
		return sum
	}
}
