package executor

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	minConcurrency = 2
	maxConcurrency = 8
)

// DefaultConcurrency is NumCPU clamped to [2, 8].
func DefaultConcurrency() int {
	return min(max(runtime.NumCPU(), minConcurrency), maxConcurrency)
}

// Task is one unit of work, typically the comparison of a single file pair.
type Task func(ctx context.Context) error

type Executor struct {
	concurrency int
}

// New returns an executor running at most concurrency tasks at once.
// concurrency <= 0 selects DefaultConcurrency.
func New(concurrency int) *Executor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency()
	}
	return &Executor{concurrency: concurrency}
}

func (e *Executor) Concurrency() int {
	return e.concurrency
}

// Execute runs tasks and returns the first error. Tasks not yet started when an error occurs
// are never started; tasks already running finish their current item.
func (e *Executor) Execute(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}

	if e.concurrency == 1 {
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := task(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	sem := semaphore.NewWeighted(int64(e.concurrency))
	group, groupCtx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		if err := sem.Acquire(groupCtx, 1); err != nil {
			break
		}
		group.Go(func() error {
			defer sem.Release(1)

			if err := groupCtx.Err(); err != nil {
				return err
			}
			return task(groupCtx)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	return nil
}
