package lattice

import "fmt"

// MaxChainSteps bounds the chain checks below. Reaching the bound means the
// domain's operator does not stabilize, which is a contract violation, not a
// tolerable imprecision.
const MaxChainSteps = 10_000

// CheckWidening verifies the widening obligations against an ascending
// sequence of domain values: the result covers both operands, and repeated
// widening against the sequence stabilizes.
func CheckWidening[T AbstractValue[T]](seq []T) error {
	for i, y := range seq {
		for _, x := range seq[:i+1] {
			w := x.Widen(y)
			if !x.SubsetEq(w) {
				return fmt.Errorf("widen not covering: %v ⋢ %v.Widen(%v)", x, x, y)
			}
			if !y.SubsetEq(w) {
				return fmt.Errorf("widen not covering: %v ⋢ %v.Widen(%v)", y, x, y)
			}
		}
	}
	if len(seq) == 0 {
		return nil
	}
	cur := seq[0]
	steps := 0
	for {
		next := cur.Widen(seq[steps%len(seq)])
		if cur.SubsetEq(next) && next.SubsetEq(cur) {
			return nil
		}
		cur = next
		steps++
		if steps > MaxChainSteps {
			return fmt.Errorf("widening chain did not stabilize after %d steps (at %v)", MaxChainSteps, cur)
		}
	}
}

// CheckNarrowing verifies the narrowing obligations: the result is bracketed
// between meet and the left operand, and the descending chain stabilizes.
func CheckNarrowing[T AbstractValue[T]](seq []T) error {
	for i, y := range seq {
		for _, x := range seq[:i+1] {
			n := x.Narrow(y)
			if !x.Meet(y).SubsetEq(n) {
				return fmt.Errorf("narrow below meet: %v.Meet(%v) ⋢ %v", x, y, n)
			}
			if !n.SubsetEq(x) {
				return fmt.Errorf("narrow above operand: %v ⋢ %v", n, x)
			}
		}
	}
	if len(seq) == 0 {
		return nil
	}
	cur := seq[0]
	steps := 0
	for {
		next := cur.Narrow(seq[steps%len(seq)])
		if cur.SubsetEq(next) && next.SubsetEq(cur) {
			return nil
		}
		cur = next
		steps++
		if steps > MaxChainSteps {
			return fmt.Errorf("narrowing chain did not stabilize after %d steps (at %v)", MaxChainSteps, cur)
		}
	}
}
