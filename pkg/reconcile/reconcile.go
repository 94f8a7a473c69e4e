// Package reconcile splits two sets of relative paths into new, overlapping and destination-only sets.
package reconcile

import "sort"

// Result holds the three disjoint classifications of a source/destination pair.
type Result struct {
	New     []string // in source only
	Overlap []string // in both
	Gone    []string // in destination only
}

// Reconcile computes New = source - dest, Overlap = source ∩ dest and Gone = dest - source.
func Reconcile(source, dest []string) Result {
	return Partition(source, dest, true)
}

// Partition is Reconcile with Gone left empty when withGone is false.
// Paths are compared by exact string equality; duplicates collapse.
func Partition(source, dest []string, withGone bool) Result {
	sourceSet := toSet(source)
	destSet := toSet(dest)

	result := Result{
		New:     []string{},
		Overlap: []string{},
		Gone:    []string{},
	}

	for path := range sourceSet {
		if _, exists := destSet[path]; exists {
			result.Overlap = append(result.Overlap, path)
		} else {
			result.New = append(result.New, path)
		}
	}

	if withGone {
		for path := range destSet {
			if _, exists := sourceSet[path]; !exists {
				result.Gone = append(result.Gone, path)
			}
		}
	}

	sort.Strings(result.New)
	sort.Strings(result.Overlap)
	sort.Strings(result.Gone)
	return result
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}
