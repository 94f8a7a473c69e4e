package compare

import "slices"

type Options struct {
	// Prune computes destination-only files. When false NotInSource is always empty.
	Prune bool
	// Excludes are doublestar patterns applied to relative paths on both sides.
	Excludes []string
	// Concurrency bounds parallel content comparisons. 1 compares sequentially, <= 0 picks a default.
	Concurrency int
}

// Result is the outcome of one comparison. It is never modified after Compare returns.
type Result struct {
	newFiles      []string
	modifiedFiles []string
	notInSource   []string
}

// Counts summarises a Result.
type Counts struct {
	New         int `json:"new"`
	Modified    int `json:"modified"`
	NotInSource int `json:"notInSource"`
}

func NewResult(newFiles, modifiedFiles, notInSource []string) *Result {
	return &Result{
		newFiles:      sortedCopy(newFiles),
		modifiedFiles: sortedCopy(modifiedFiles),
		notInSource:   sortedCopy(notInSource),
	}
}

// NewFiles are absolute source paths with no counterpart in the destination.
func (r *Result) NewFiles() []string { return slices.Clone(r.newFiles) }

// ModifiedFiles are absolute source paths whose destination counterpart has different content.
func (r *Result) ModifiedFiles() []string { return slices.Clone(r.modifiedFiles) }

// NotInSource are absolute destination paths with no counterpart in the source.
func (r *Result) NotInSource() []string { return slices.Clone(r.notInSource) }

func (r *Result) Counts() Counts {
	return Counts{
		New:         len(r.newFiles),
		Modified:    len(r.modifiedFiles),
		NotInSource: len(r.notInSource),
	}
}

// Empty reports whether the destination already matches the source.
func (r *Result) Empty() bool {
	return len(r.newFiles) == 0 && len(r.modifiedFiles) == 0 && len(r.notInSource) == 0
}

func sortedCopy(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	slices.Sort(out)
	return out
}
