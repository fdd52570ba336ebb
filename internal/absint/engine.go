package absint

import (
	"fmt"

	"tessera/internal/dialect"
	"tessera/internal/ir"
	"tessera/internal/lattice"
	"tessera/internal/trace"
)

// Options configures an engine.
type Options struct {
	Strategy Strategy
	Tracer   trace.Tracer
}

// Engine runs the worklist fixpoint for one domain over one IR context.
// Like the concrete interpreter it borrows the context read-only; all
// mutable analysis state is per-Analyze.
type Engine[A lattice.AbstractValue[A]] struct {
	ctx    *ir.Context
	sem    Semantics[A]
	strat  Strategy
	tracer trace.Tracer
	cache  *SummaryCache[A]

	inflight map[ir.FuncID]*inflight[A]
}

// inflight tracks one function currently on the analysis descent stack: the
// widened join of every argument profile observed so far and the summary
// approximation recursive callers read instead of descending.
type inflight[A lattice.AbstractValue[A]] struct {
	args     []A
	result   A
	recursed bool // a recursive call read the approximation
	grown    bool // a recursive call widened the argument profile
}

// NewEngine creates an engine. cache may be nil; a private cache is created
// so interprocedural analysis always has somewhere to memoize.
func NewEngine[A lattice.AbstractValue[A]](ctx *ir.Context, sem Semantics[A], cache *SummaryCache[A], opts Options) *Engine[A] {
	if cache == nil {
		cache = NewSummaryCache[A]()
	}
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	strat := opts.Strategy
	if strat.Kind == 0 {
		strat = AllJoins()
	}
	return &Engine[A]{
		ctx:      ctx,
		sem:      sem,
		strat:    strat,
		tracer:   tr,
		cache:    cache,
		inflight: make(map[ir.FuncID]*inflight[A], 4),
	}
}

// Cache returns the engine's summary cache.
func (e *Engine[A]) Cache() *SummaryCache[A] { return e.cache }

// AnalysisResult holds the fixpoint state of one function for one abstract
// argument profile: a queryable per-program-point abstract value map.
type AnalysisResult[A lattice.AbstractValue[A]] struct {
	fn     ir.FuncID
	values map[ir.Value]A
	visits map[ir.BlockID]int
	ret    A
	hasRet bool
	bottom A
}

// Func returns the analyzed function.
func (r *AnalysisResult[A]) Func() ir.FuncID { return r.fn }

// At returns the abstract value at a program point; ok is false when the
// point was never reached (its value is bottom).
func (r *AnalysisResult[A]) At(v ir.Value) (A, bool) {
	a, ok := r.values[v]
	if !ok {
		return r.bottom, false
	}
	return a, true
}

// Return returns the function's abstract result, bottom when no return was
// reached.
func (r *AnalysisResult[A]) Return() A {
	if !r.hasRet {
		return r.bottom
	}
	return r.ret
}

// Visits reports how many times a block was processed before the fixpoint.
func (r *AnalysisResult[A]) Visits(b ir.BlockID) int { return r.visits[b] }

// Analyze runs the fixpoint for fn with the entry block's arguments bound to
// args, and installs the computed summary in the cache.
//
// Recursion (direct or mutual) is handled by re-iteration: a call back into
// an in-flight function reads its summary approximation, which starts at
// bottom, and folds its argument profile into the in-flight one. When a pass
// grew the approximation or the profile, fn is analyzed again; only the
// stable summary is installed.
func (e *Engine[A]) Analyze(fn ir.FuncID, args []A) (*AnalysisResult[A], error) {
	st := &inflight[A]{args: append([]A(nil), args...), result: e.sem.Bottom()}
	e.inflight[fn] = st
	defer delete(e.inflight, fn)

	var res *AnalysisResult[A]
	for {
		st.grown = false
		r, err := e.analyze(fn, st.args)
		if err != nil {
			return nil, err
		}
		res = r
		ret := r.Return()
		if !st.recursed {
			st.result = ret
			break
		}
		stable := !st.grown && ret.SubsetEq(st.result)
		st.result = st.result.Widen(st.result.Join(ret))
		if stable {
			break
		}
		e.tracer.Eventf(trace.LevelDebug, "absint: reiterate fn%d", fn)
	}

	if err := e.cache.Insert(fn, args, st.result); err != nil {
		return nil, err
	}
	if st.recursed {
		// Install under the widened profile too, so later calls that fold
		// to it resolve without a descent.
		if err := e.cache.Insert(fn, st.args, st.result); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (e *Engine[A]) analyze(fn ir.FuncID, args []A) (*AnalysisResult[A], error) {
	bottom := e.sem.Bottom()
	res := &AnalysisResult[A]{
		fn:     fn,
		values: make(map[ir.Value]A, 32),
		visits: make(map[ir.BlockID]int, 8),
		bottom: bottom,
	}

	entry := e.ctx.FuncCFG(fn).Entry()
	if !entry.IsValid() {
		return nil, fmt.Errorf("absint: function %d has an empty body", fn)
	}
	if want := len(e.ctx.Block(entry).Params); want != len(args) {
		return nil, fmt.Errorf("absint: entry bb%d expects %d arguments, got %d", entry, want, len(args))
	}

	blockIn := map[ir.BlockID][]A{entry: append([]A(nil), args...)}
	var queue []ir.BlockID
	queued := map[ir.BlockID]bool{entry: true}
	queue = append(queue, entry)

	for len(queue) > 0 {
		bid := queue[0]
		queue = queue[1:]
		queued[bid] = false
		res.visits[bid]++
		e.tracer.Eventf(trace.LevelDebug, "absint: visit bb%d (#%d)", bid, res.visits[bid])

		flow, err := e.visitBlock(bid, blockIn[bid], res)
		if err != nil {
			return nil, err
		}

		if flow.Return != nil {
			if res.hasRet {
				res.ret = res.ret.Join(*flow.Return)
			} else {
				res.ret = *flow.Return
				res.hasRet = true
			}
		}

		for _, edge := range flow.Edges {
			if e.propagate(blockIn, edge, res.visits[edge.Target]) && !queued[edge.Target] {
				queued[edge.Target] = true
				queue = append(queue, edge.Target)
			}
		}
	}
	return res, nil
}

// visitBlock executes one block's abstract semantics: bind the block
// arguments, transfer every statement, evaluate the terminator.
func (e *Engine[A]) visitBlock(bid ir.BlockID, in []A, res *AnalysisResult[A]) (Flow[A], error) {
	env := NewEnv(e.sem.Bottom())
	// Seed from the recorded store so values defined in dominating blocks
	// resolve here instead of reading as bottom.
	for v, a := range res.values {
		env.bindings[v] = a
	}
	b := e.ctx.Block(bid)
	for i := range b.Params {
		env.Set(b.Arg(i), in[i])
	}

	var flow Flow[A]
	var ferr error
	e.ctx.Stmts(bid, func(s *ir.Statement) bool {
		if dialect.IsTerminator(s.Info) {
			flow, ferr = e.sem.FlowOf(e.ctx, s, env)
			return false
		}
		ferr = e.transfer(s, env)
		return ferr == nil
	})
	if ferr != nil {
		return Flow[A]{}, ferr
	}

	// Record the fixpoint view of every binding this visit produced.
	for v, a := range env.bindings {
		if old, ok := res.values[v]; ok {
			res.values[v] = old.Join(a)
		} else {
			res.values[v] = a
		}
	}
	return flow, nil
}

func (e *Engine[A]) transfer(s *ir.Statement, env *Env[A]) error {
	site, err := e.sem.CallOf(e.ctx, s, env)
	if err != nil {
		return err
	}
	if site == nil {
		return e.sem.Transfer(e.ctx, s, env)
	}
	result, err := e.analyzeCall(site.Callee, site.Args)
	if err != nil {
		return err
	}
	if site.Result.IsValid() {
		env.Set(site.Result, result)
	}
	return nil
}

// analyzeCall resolves a call through the summary cache, analyzing the
// callee on a miss. A call back into a function on the descent stack folds
// its argument profile into the in-flight one and reads the current
// approximation; Analyze re-iterates until that approximation is stable.
func (e *Engine[A]) analyzeCall(fn ir.FuncID, args []A) (A, error) {
	if st, ok := e.inflight[fn]; ok {
		var zero A
		if len(args) != len(st.args) {
			return zero, fmt.Errorf("absint: recursive call into fn%d with %d arguments, want %d", fn, len(args), len(st.args))
		}
		st.recursed = true
		for i := range st.args {
			merged := st.args[i].Widen(st.args[i].Join(args[i]))
			if !merged.SubsetEq(st.args[i]) {
				st.args[i] = merged
				st.grown = true
			}
		}
		e.tracer.Eventf(trace.LevelDebug, "absint: recursive call fn%d reads approximation", fn)
		return st.result, nil
	}
	if summary, ok := e.cache.Lookup(fn, args); ok {
		e.tracer.Eventf(trace.LevelDebug, "absint: summary hit fn%d", fn)
		return summary, nil
	}
	e.tracer.Eventf(trace.LevelDebug, "absint: summary miss fn%d, descending", fn)
	res, err := e.Analyze(fn, args)
	if err != nil {
		var zero A
		return zero, err
	}
	return res.Return(), nil
}

// propagate merges an edge's values into the target's recorded state.
// Reports whether the state grew (target needs requeueing).
func (e *Engine[A]) propagate(blockIn map[ir.BlockID][]A, edge Edge[A], visits int) bool {
	cur, ok := blockIn[edge.Target]
	if !ok {
		in := make([]A, len(edge.Args))
		copy(in, edge.Args)
		blockIn[edge.Target] = in
		return true
	}
	if len(cur) != len(edge.Args) {
		// Arity mismatches are structural bugs caught by ir.Validate;
		// losing precision here is not an option, so fail loudly.
		panic(fmt.Sprintf("absint: bb%d argument arity changed between visits", edge.Target))
	}
	changed := false
	for i := range cur {
		merged := Merge(e.strat, cur[i], edge.Args[i], visits)
		if !merged.SubsetEq(cur[i]) {
			cur[i] = merged
			changed = true
		}
	}
	return changed
}
