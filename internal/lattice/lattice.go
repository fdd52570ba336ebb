// Package lattice defines the algebraic contract analysis domains implement.
//
// A Lattice value knows how to join and meet with another value of its own
// type and how to test the partial order. AbstractValue adds the widening and
// narrowing operators that make fixpoint iteration terminate on domains with
// infinite ascending chains. There is deliberately no blanket Widen: whether
// widening is sound is a property of the domain, so every domain defines its
// own. Narrow may be implemented as identity.
package lattice

// Lattice is the join/meet/order contract, implemented with value receivers
// on the domain's own type.
type Lattice[T any] interface {
	// Join returns the least upper bound of the receiver and other.
	Join(other T) T
	// Meet returns the greatest lower bound of the receiver and other.
	Meet(other T) T
	// SubsetEq reports whether the receiver is ordered at or below other.
	SubsetEq(other T) bool
}

// Bounded is a lattice with extremal elements. A domain that is Bounded and
// of finite height may be analyzed without widening (the Never strategy).
type Bounded[T any] interface {
	Lattice[T]
	Bottom() T
	Top() T
}

// AbstractValue is the contract for values flowing through abstract
// interpretation.
//
// Obligations every domain must satisfy (and its tests must check):
//
//	x ⊑ x.Widen(y) and y ⊑ x.Widen(y)
//	the chain w0 = x, w(i+1) = wi.Widen(yi) stabilizes in finitely many steps
//	x.Meet(y) ⊑ x.Narrow(y) ⊑ x, and the narrowing chain stabilizes
type AbstractValue[T any] interface {
	Lattice[T]
	Widen(next T) T
	Narrow(next T) T
}
