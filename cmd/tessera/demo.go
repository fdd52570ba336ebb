package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tessera/internal/absint"
	"tessera/internal/interp"
	"tessera/internal/ir"
	"tessera/internal/testkit"
	"tessera/internal/trace"
)

var (
	headColor = color.New(color.FgCyan, color.Bold)
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed, color.Bold)
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build the sample programs, execute them and analyze them",
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tracer, err := tracerFor(cmd, cfg)
	if err != nil {
		return err
	}
	strat, err := cfg.strategy()
	if err != nil {
		return err
	}

	ctx := ir.NewContext()
	double := buildDouble(ctx)
	countdown := buildCountdown(ctx, double)
	if err := ir.Validate(ctx); err != nil {
		return err
	}

	headColor.Println("== IR ==")
	ir.DumpFunc(os.Stdout, ctx, double)
	ir.DumpFunc(os.Stdout, ctx, countdown)

	headColor.Println("== concrete run ==")
	itp := interp.New(ctx, interp.Options{Fuel: cfg.Fuel, Tracer: tracer})
	result, err := itp.Run(countdown, int64(10))
	if err != nil {
		errColor.Fprintf(os.Stderr, "run failed: %v\n", err)
		return err
	}
	okColor.Printf("countdown(10) = %v in %d steps\n", result, itp.Steps())

	headColor.Println("== interval analysis ==")
	cache := absint.NewSummaryCache[testkit.Interval]()
	if cfg.CachePath != "" {
		if err := cache.Load(cfg.CachePath); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	engine := absint.NewEngine[testkit.Interval](
		ctx,
		testkit.Analysis[testkit.Interval]{Ops: testkit.IntervalOps{}},
		cache,
		absint.Options{Strategy: strat, Tracer: tracer},
	)
	res, err := engine.Analyze(countdown, []testkit.Interval{testkit.IntervalRange(0, 100)})
	if err != nil {
		return err
	}
	okColor.Printf("countdown returns %s (strategy %s, %d summaries)\n", res.Return(), strat, cache.Len())

	if cfg.CachePath != "" {
		if err := cache.Save(cfg.CachePath); err != nil {
			return err
		}
		okColor.Printf("summaries saved to %s\n", cfg.CachePath)
	}
	tracer.Eventf(trace.LevelStep, "demo complete")
	return nil
}

// buildDouble builds: double(x) { return x + x }
func buildDouble(ctx *ir.Context) ir.FuncID {
	b := testkit.NewFunc(ctx, "double", testkit.IntSig(1))
	entry := b.Block()
	x := b.Param(entry, "x")
	sum := b.Add(entry, x, x)
	b.Return(entry, sum)
	return b.Fn
}

// buildCountdown builds a loop that steps n down to zero, then returns
// double of the final loop value, which is always zero.
//
//	entry(n):   jump loop(n)
//	loop(i):    condbr i != 0 ? body(i) : exit(i)
//	body(i):    i1 = i + (-1); jump loop(i1)
//	exit(i):    r = call double(i); return r
func buildCountdown(ctx *ir.Context, double ir.FuncID) ir.FuncID {
	b := testkit.NewFunc(ctx, "countdown", testkit.IntSig(1))
	entry := b.Block()
	loop := b.Block()
	body := b.Block()
	exit := b.Block()

	n := b.Param(entry, "n")
	b.Jump(entry, loop, n)

	i := b.Param(loop, "i")
	b.CondBr(loop, i, body, exit, []ir.Value{i}, []ir.Value{i})

	iv := b.Param(body, "i")
	step := b.Const(body, -1)
	next := b.Add(body, iv, step)
	b.Jump(body, loop, next)

	ev := b.Param(exit, "i")
	r := b.Call(exit, double, ev)
	b.Return(exit, r)
	return b.Fn
}
