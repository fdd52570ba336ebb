// Package absint provides the abstract-interpretation engine: a worklist
// fixpoint over abstract block-argument states, parameterized by an analysis
// domain and a widening strategy, with per-function summaries memoized in a
// cache.
//
// Imprecision is never an error here; the engine only fails when the domain
// semantics themselves fail. Termination comes from the widening contract in
// internal/lattice, not from an iteration cap.
package absint

import "tessera/internal/lattice"

// StrategyKind enumerates widening strategies.
type StrategyKind uint8

const (
	// StrategyAllJoins always widens at merge points.
	StrategyAllJoins StrategyKind = iota + 1
	// StrategyNever always joins. Sound only for finite-height domains,
	// which terminate without widening.
	StrategyNever
	// StrategyDelayed joins for the first Delay revisits of a block, then
	// widens. Buys precision on shallow loops without giving up
	// termination.
	StrategyDelayed
)

// Strategy selects how incoming abstract state merges into a block's
// recorded state.
type Strategy struct {
	Kind  StrategyKind
	Delay int // StrategyDelayed only
}

// AllJoins returns the always-widen strategy.
func AllJoins() Strategy { return Strategy{Kind: StrategyAllJoins} }

// Never returns the never-widen strategy.
func Never() Strategy { return Strategy{Kind: StrategyNever} }

// Delayed returns a strategy that joins for the first n revisits.
func Delayed(n int) Strategy { return Strategy{Kind: StrategyDelayed, Delay: n} }

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s.Kind {
	case StrategyAllJoins:
		return "alljoins"
	case StrategyNever:
		return "never"
	case StrategyDelayed:
		return "delayed"
	default:
		return "unknown"
	}
}

// Merge combines the recorded state with incoming state at a block whose
// visit counter is visits.
func Merge[A lattice.AbstractValue[A]](s Strategy, current, incoming A, visits int) A {
	switch s.Kind {
	case StrategyNever:
		return current.Join(incoming)
	case StrategyDelayed:
		if visits < s.Delay {
			return current.Join(incoming)
		}
		return current.Widen(current.Join(incoming))
	default:
		return current.Widen(current.Join(incoming))
	}
}
