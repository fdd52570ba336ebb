package ir

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of every live function in the
// context. Returns a joined error listing all violations.
func Validate(ctx *Context) error {
	var errs []error
	ctx.Funcs(func(id FuncID, f *Func) {
		name := ctx.GlobalName(ctx.Staged(f.Staged).Name)
		if err := validateFunc(ctx, f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", name, err))
		}
	})
	return errors.Join(errs...)
}

func validateFunc(ctx *Context, f *Func) error {
	if !f.Body.IsValid() {
		return errors.New("specialized function without a body region")
	}

	var errs []error

	r := ctx.Region(f.Body)
	if r.Parent != f.Def {
		errs = append(errs, fmt.Errorf("body region parent %d does not point at defining statement %d", r.Parent, f.Def))
	}
	if len(r.Blocks) == 0 {
		errs = append(errs, errors.New("empty body region"))
	}

	inRegion := make(map[BlockID]bool, len(r.Blocks))
	for _, bid := range r.Blocks {
		inRegion[bid] = true
	}

	// Region block list and CFG links must agree.
	var walked []BlockID
	ctx.RegionCFG(f.Body).Blocks(ctx, func(b *Block) bool {
		walked = append(walked, b.ID)
		return true
	})
	if len(walked) != len(r.Blocks) {
		errs = append(errs, fmt.Errorf("cfg walk visits %d blocks, region lists %d", len(walked), len(r.Blocks)))
	}

	for _, bid := range r.Blocks {
		if err := validateBlock(ctx, bid); err != nil {
			errs = append(errs, fmt.Errorf("bb%d: %w", bid, err))
		}
	}
	return errors.Join(errs...)
}

func validateBlock(ctx *Context, id BlockID) error {
	var errs []error

	b := ctx.Block(id)
	prev := NoStmtID
	seen := 0
	for sid := b.First; sid.IsValid(); {
		s := ctx.Stmt(sid)
		seen++
		if s.Block != id {
			errs = append(errs, fmt.Errorf("stmt %d back-reference names bb%d", sid, s.Block))
		}
		if s.Prev != prev {
			errs = append(errs, fmt.Errorf("stmt %d prev link is %d, want %d", sid, s.Prev, prev))
		}
		if IsTerminator(s.Info) && sid != b.Last {
			errs = append(errs, fmt.Errorf("terminator %s is not the last statement", s.Info.OpName()))
		}
		prev = sid
		sid = s.Next
	}
	if b.Last != prev {
		errs = append(errs, fmt.Errorf("block last link is %d, want %d", b.Last, prev))
	}
	if seen > 0 && ctx.Terminator(id) == nil {
		errs = append(errs, errors.New("unterminated block"))
	}
	return errors.Join(errs...)
}
