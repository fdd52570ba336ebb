package ir

import (
	"fmt"
	"io"
)

// DumpFunc writes a human-readable rendering of one specialized function.
// This is a debug surface, not a parseable syntax.
func DumpFunc(w io.Writer, ctx *Context, id FuncID) {
	f := ctx.Func(id)
	st := ctx.Staged(f.Staged)
	fmt.Fprintf(w, "func %s(", ctx.GlobalName(st.Name))
	for i, p := range st.Sig.Params {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "t%d", p)
	}
	fmt.Fprintf(w, ") -> t%d {\n", st.Sig.Result)

	ctx.FuncCFG(id).Blocks(ctx, func(b *Block) bool {
		fmt.Fprintf(w, "bb%d", b.ID)
		if len(b.Params) > 0 {
			fmt.Fprint(w, "(")
			for i, p := range b.Params {
				if i > 0 {
					fmt.Fprint(w, ", ")
				}
				fmt.Fprintf(w, "%s: t%d", ctx.SymbolName(p.Name), p.Type)
			}
			fmt.Fprint(w, ")")
		}
		fmt.Fprintln(w, ":")
		ctx.Stmts(b.ID, func(s *Statement) bool {
			fmt.Fprintf(w, "  s%d = %s\n", s.ID, s.Info.OpName())
			return true
		})
		return true
	})
	fmt.Fprintln(w, "}")
}
