package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuya-takeyama/diffcopy/pkg/comparator"
	"github.com/yuya-takeyama/diffcopy/pkg/compare"
	"github.com/yuya-takeyama/diffcopy/pkg/scanner"
)

const defaultIterations = 5

type benchResult struct {
	Strategy comparator.Strategy
	Changes  int
	Elapsed  time.Duration
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench <source> <dest>",
		Short: "Time every comparison strategy against the same pair of directories",
		Args:  cobra.ExactArgs(2),
		RunE:  runBench,
	}

	cmd.Flags().Int("iterations", defaultIterations, "Runs per strategy")
	cmd.Flags().Int("concurrency", 1, "Number of file pairs compared at once")

	return cmd
}

func runBench(cmd *cobra.Command, args []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	iterations := v.GetInt("iterations")
	if iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results, err := bench(ctx, args[0], args[1], iterations, v.GetInt("concurrency"))
	if err != nil {
		return err
	}

	printBench(cmd.OutOrStdout(), results, iterations)
	return nil
}

// bench runs each strategy iterations times with pruning enabled.
func bench(ctx context.Context, sourceRoot, destRoot string, iterations, concurrency int) ([]benchResult, error) {
	fsys := scanner.OSFS()
	var results []benchResult

	for _, strategy := range comparator.Strategies() {
		cmp, err := comparator.New(fsys, strategy)
		if err != nil {
			return nil, err
		}
		dc := compare.NewDirComparer(fsys, cmp, nil)

		br := benchResult{Strategy: strategy}
		start := time.Now()
		for i := 0; i < iterations; i++ {
			result, err := dc.Compare(ctx, sourceRoot, destRoot, compare.Options{
				Prune:       true,
				Concurrency: concurrency,
			})
			if err != nil {
				return nil, fmt.Errorf("%s run %d: %w", strategy, i+1, err)
			}
			c := result.Counts()
			br.Changes = c.New + c.Modified + c.NotInSource
		}
		br.Elapsed = time.Since(start)
		results = append(results, br)
	}

	return results, nil
}

func printBench(w io.Writer, results []benchResult, iterations int) {
	for _, r := range results {
		fmt.Fprintf(w, "%s: %d changes, %d runs in %s (%s/run)\n",
			r.Strategy, r.Changes, iterations, r.Elapsed, r.Elapsed/time.Duration(iterations))
	}
}
