package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tessera/internal/absint"
	"tessera/internal/interp"
	"tessera/internal/ir"
	"tessera/internal/testkit"
)

var selfcheckCmd = &cobra.Command{
	Use:   "selfcheck",
	Short: "Run the built-in scenarios concurrently and verify their results",
	RunE:  runSelfcheck,
}

// Each scenario builds its own context, so they can run in parallel even
// though a single context is strictly single-threaded.
func runSelfcheck(cmd *cobra.Command, _ []string) error {
	scenarios := []struct {
		name string
		run  func() error
	}{
		{"concrete-run", checkConcrete},
		{"fuel-bound", checkFuel},
		{"interval-fixpoint", checkIntervalFixpoint},
	}

	var g errgroup.Group
	for _, sc := range scenarios {
		sc := sc
		g.Go(func() error {
			if err := sc.run(); err != nil {
				return fmt.Errorf("%s: %w", sc.name, err)
			}
			okColor.Printf("ok  %s\n", sc.name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errColor.Println(err)
		return err
	}
	okColor.Println("selfcheck passed")
	return nil
}

func checkConcrete() error {
	ctx := ir.NewContext()
	double := buildDouble(ctx)
	fn := buildCountdown(ctx, double)
	itp := interp.New(ctx, interp.Options{})
	got, err := itp.Run(fn, int64(7))
	if err != nil {
		return err
	}
	if got != int64(0) {
		return fmt.Errorf("countdown(7) = %v, want 0", got)
	}
	return nil
}

func checkFuel() error {
	ctx := ir.NewContext()
	double := buildDouble(ctx)
	fn := buildCountdown(ctx, double)
	itp := interp.New(ctx, interp.Options{Fuel: 3})
	_, err := itp.Run(fn, int64(1_000_000))
	if !interp.IsCode(err, interp.CodeFuelExhausted) {
		return fmt.Errorf("got %v, want fuel exhaustion", err)
	}
	return nil
}

func checkIntervalFixpoint() error {
	ctx := ir.NewContext()
	double := buildDouble(ctx)
	fn := buildCountdown(ctx, double)
	engine := absint.NewEngine[testkit.Interval](
		ctx,
		testkit.Analysis[testkit.Interval]{Ops: testkit.IntervalOps{}},
		nil,
		absint.Options{},
	)
	res, err := engine.Analyze(fn, []testkit.Interval{testkit.IntervalRange(0, 10)})
	if err != nil {
		return err
	}
	ret := res.Return()
	if ret.Empty {
		return fmt.Errorf("loop analysis returned bottom")
	}
	return nil
}
