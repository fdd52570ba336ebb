// Package dialect defines the capability layer through which arbitrary
// instruction sets plug into the IR.
//
// There is no base instruction class. An instruction type implements exactly
// the capability interfaces that apply to it, and generic code probes them by
// type assertion. Composite dialects wrap another dialect's instruction in a
// variant implementing ir.Wrapper; the package-level probes walk the Unwrap
// chain, so a wrapping variant forwards every capability it does not
// override. This is how independently defined instruction sets compose into
// one language.
package dialect

import "tessera/internal/ir"

// Instruction is the dialect payload contract; see ir.Instruction.
type Instruction = ir.Instruction

// HasArguments is implemented by instructions that read SSA operands.
type HasArguments interface {
	Arguments() []ir.Value
}

// HasResults is implemented by instructions that produce SSA values.
type HasResults interface {
	Results() []ir.Value
}

// HasSuccessors is implemented by terminators that target blocks.
type HasSuccessors interface {
	Successors() []ir.BlockID
}

// HasRegions is implemented by instructions carrying nested regions,
// e.g. loop or conditional bodies.
type HasRegions interface {
	Regions() []ir.RegionID
}

// ArgumentsOf returns the SSA operands the instruction reads, walking the
// wrapper chain. Nil when the capability is absent.
func ArgumentsOf(in Instruction) []ir.Value {
	for in != nil {
		if c, ok := in.(HasArguments); ok {
			return c.Arguments()
		}
		in = unwrap(in)
	}
	return nil
}

// ResultsOf returns the SSA values the instruction produces.
func ResultsOf(in Instruction) []ir.Value {
	for in != nil {
		if c, ok := in.(HasResults); ok {
			return c.Results()
		}
		in = unwrap(in)
	}
	return nil
}

// SuccessorsOf returns the blocks a terminator may transfer control to.
func SuccessorsOf(in Instruction) []ir.BlockID {
	for in != nil {
		if c, ok := in.(HasSuccessors); ok {
			return c.Successors()
		}
		in = unwrap(in)
	}
	return nil
}

// RegionsOf returns the instruction's nested regions.
func RegionsOf(in Instruction) []ir.RegionID {
	for in != nil {
		if c, ok := in.(HasRegions); ok {
			return c.Regions()
		}
		in = unwrap(in)
	}
	return nil
}

// IsTerminator reports whether the instruction ends its block.
func IsTerminator(in Instruction) bool {
	return ir.IsTerminator(in)
}

// IsConstant reports whether the instruction produces a compile-time constant.
func IsConstant(in Instruction) bool {
	for in != nil {
		if c, ok := in.(interface{ IsConstant() bool }); ok {
			return c.IsConstant()
		}
		in = unwrap(in)
	}
	return false
}

// IsPure reports whether the instruction is free of side effects.
func IsPure(in Instruction) bool {
	for in != nil {
		if c, ok := in.(interface{ IsPure() bool }); ok {
			return c.IsPure()
		}
		in = unwrap(in)
	}
	return false
}

func unwrap(in Instruction) Instruction {
	if w, ok := in.(ir.Wrapper); ok {
		return w.Unwrap()
	}
	return nil
}

// TypeLattice is the partially ordered type universe a dialect binds its
// instructions to.
type TypeLattice interface {
	JoinTypes(a, b ir.TypeID) ir.TypeID
	MeetTypes(a, b ir.TypeID) ir.TypeID
	IsSubtype(a, b ir.TypeID) bool
	TopType() ir.TypeID
	BottomType() ir.TypeID
}

// Dialect binds an instruction set to its type lattice.
type Dialect interface {
	Name() string
	Types() TypeLattice
}
