// Package compare classifies the files of a source and a destination directory into new,
// modified and destination-only sets.
package compare

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-git/go-billy/v5"

	"github.com/yuya-takeyama/diffcopy/pkg/comparator"
	"github.com/yuya-takeyama/diffcopy/pkg/executor"
	"github.com/yuya-takeyama/diffcopy/pkg/logger"
	"github.com/yuya-takeyama/diffcopy/pkg/reconcile"
	"github.com/yuya-takeyama/diffcopy/pkg/scanner"
)

const (
	PhaseScanSource      = "scan-source"
	PhaseScanDestination = "scan-destination"
	PhaseReconcile       = "reconcile"
	PhaseCompare         = "compare"
)

type DirComparer struct {
	fs         billy.Filesystem
	comparator comparator.Comparator
	logger     logger.Logger
}

func NewDirComparer(fsys billy.Filesystem, cmp comparator.Comparator, log logger.Logger) *DirComparer {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &DirComparer{
		fs:         fsys,
		comparator: cmp,
		logger:     log,
	}
}

// Compare scans both roots, reconciles their relative paths and compares every overlapping pair.
// Both roots are validated before either is enumerated. The first comparison error aborts the call.
func (c *DirComparer) Compare(ctx context.Context, sourceRoot, destRoot string, opts Options) (*Result, error) {
	sourceScanner, err := scanner.New(c.fs, sourceRoot, scanner.WithExcludes(opts.Excludes...))
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", sourceRoot, err)
	}
	destScanner, err := scanner.New(c.fs, destRoot, scanner.WithExcludes(opts.Excludes...))
	if err != nil {
		return nil, fmt.Errorf("destination %q: %w", destRoot, err)
	}
	sourceRoot, destRoot = sourceScanner.Root(), destScanner.Root()

	sourceFiles, err := c.scan(PhaseScanSource, sourceScanner)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source: %w", err)
	}
	destFiles, err := c.scan(PhaseScanDestination, destScanner)
	if err != nil {
		return nil, fmt.Errorf("failed to scan destination: %w", err)
	}

	c.logger.PhaseStart(PhaseReconcile, len(sourceFiles)+len(destFiles))
	sets := reconcile.Partition(sourceFiles, destFiles, opts.Prune)
	c.logger.PhaseComplete(PhaseReconcile, len(sets.New)+len(sets.Overlap)+len(sets.Gone))

	modified, err := c.compareOverlap(ctx, sets.Overlap, sourceRoot, destRoot, opts.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to compare %s with %s: %w", sourceRoot, destRoot, err)
	}

	newFiles := joinAll(sourceRoot, sets.New)
	for _, p := range newFiles {
		c.logger.ItemProcessed(PhaseReconcile, p, logger.ActionNew)
	}
	notInSource := joinAll(destRoot, sets.Gone)
	for _, p := range notInSource {
		c.logger.ItemProcessed(PhaseReconcile, p, logger.ActionGone)
	}

	return NewResult(newFiles, modified, notInSource), nil
}

func (c *DirComparer) scan(phase string, s *scanner.Scanner) ([]string, error) {
	c.logger.PhaseStart(phase, 0)
	files, err := s.Scan()
	if err != nil {
		return nil, err
	}
	c.logger.PhaseComplete(phase, len(files))
	return files, nil
}

// compareOverlap returns the absolute source paths of overlapping files whose content differs.
func (c *DirComparer) compareOverlap(ctx context.Context, overlap []string, sourceRoot, destRoot string, concurrency int) ([]string, error) {
	c.logger.PhaseStart(PhaseCompare, len(overlap))

	var (
		mu       sync.Mutex
		modified []string
	)

	tasks := make([]executor.Task, 0, len(overlap))
	for _, rel := range overlap {
		sourcePath := scanner.Join(sourceRoot, rel)
		destPath := scanner.Join(destRoot, rel)

		tasks = append(tasks, func(ctx context.Context) error {
			equal, err := c.comparator.Equal(sourcePath, destPath)
			if err != nil {
				return fmt.Errorf("compare %s and %s: %w", sourcePath, destPath, err)
			}

			if equal {
				c.logger.ItemProcessed(PhaseCompare, sourcePath, logger.ActionEqual)
				return nil
			}

			c.logger.ItemProcessed(PhaseCompare, sourcePath, logger.ActionModified)
			mu.Lock()
			modified = append(modified, sourcePath)
			mu.Unlock()
			return nil
		})
	}

	if err := executor.New(concurrency).Execute(ctx, tasks...); err != nil {
		return nil, err
	}

	c.logger.PhaseComplete(PhaseCompare, len(overlap))
	return modified, nil
}

func joinAll(root string, relPaths []string) []string {
	out := make([]string, len(relPaths))
	for i, rel := range relPaths {
		out[i] = scanner.Join(root, rel)
	}
	return out
}

// Compare runs one comparison on the host filesystem with the given strategy,
// comparing overlapping files sequentially.
func Compare(ctx context.Context, sourceRoot, destRoot string, strategy comparator.Strategy, prune bool) (*Result, error) {
	fsys := scanner.OSFS()
	cmp, err := comparator.New(fsys, strategy)
	if err != nil {
		return nil, err
	}
	return NewDirComparer(fsys, cmp, nil).Compare(ctx, sourceRoot, destRoot, Options{
		Prune:       prune,
		Concurrency: 1,
	})
}
