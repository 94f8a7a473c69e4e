package reconcile

import (
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name     string
		source   []string
		dest     []string
		withGone bool
		want     Result
	}{
		{
			name:     "both empty",
			withGone: true,
			want:     Result{New: []string{}, Overlap: []string{}, Gone: []string{}},
		},
		{
			name:     "all new files",
			source:   []string{"file2.txt", "file1.txt"},
			dest:     []string{},
			withGone: true,
			want: Result{
				New:     []string{"file1.txt", "file2.txt"},
				Overlap: []string{},
				Gone:    []string{},
			},
		},
		{
			name:     "all gone with prune",
			source:   []string{},
			dest:     []string{"file1.txt", "file2.txt"},
			withGone: true,
			want: Result{
				New:     []string{},
				Overlap: []string{},
				Gone:    []string{"file1.txt", "file2.txt"},
			},
		},
		{
			name:     "gone not computed without prune",
			source:   []string{"a.txt"},
			dest:     []string{"a.txt", "b.txt"},
			withGone: false,
			want: Result{
				New:     []string{},
				Overlap: []string{"a.txt"},
				Gone:    []string{},
			},
		},
		{
			name:     "mixed",
			source:   []string{"new.txt", "dir/same.txt", "changed.txt"},
			dest:     []string{"dir/same.txt", "changed.txt", "deleted.txt"},
			withGone: true,
			want: Result{
				New:     []string{"new.txt"},
				Overlap: []string{"changed.txt", "dir/same.txt"},
				Gone:    []string{"deleted.txt"},
			},
		},
		{
			name:     "case sensitive",
			source:   []string{"Readme.md"},
			dest:     []string{"README.md"},
			withGone: true,
			want: Result{
				New:     []string{"Readme.md"},
				Overlap: []string{},
				Gone:    []string{"README.md"},
			},
		},
		{
			name:     "duplicates collapse",
			source:   []string{"a.txt", "a.txt"},
			dest:     []string{"a.txt"},
			withGone: true,
			want: Result{
				New:     []string{},
				Overlap: []string{"a.txt"},
				Gone:    []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.source, tt.dest, tt.withGone)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Partition() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReconcileSetLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		universe := rng.Intn(40)
		var source, dest []string
		for j := 0; j < universe; j++ {
			p := fmt.Sprintf("d%d/f%d.txt", j%4, j)
			switch rng.Intn(3) {
			case 0:
				source = append(source, p)
			case 1:
				dest = append(dest, p)
			default:
				source = append(source, p)
				dest = append(dest, p)
			}
		}

		got := Reconcile(source, dest)

		if !disjoint(got.New, got.Overlap) || !disjoint(got.New, got.Gone) || !disjoint(got.Overlap, got.Gone) {
			t.Fatalf("iteration %d: sets not disjoint: %+v", i, got)
		}
		if !sameSet(union(got.New, got.Overlap), source) {
			t.Fatalf("iteration %d: New ∪ Overlap != source", i)
		}
		if !sameSet(union(got.Overlap, got.Gone), dest) {
			t.Fatalf("iteration %d: Overlap ∪ Gone != dest", i)
		}
	}
}

func disjoint(a, b []string) bool {
	set := map[string]bool{}
	for _, p := range a {
		set[p] = true
	}
	for _, p := range b {
		if set[p] {
			return false
		}
	}
	return true
}

func union(a, b []string) []string {
	out := append([]string{}, a...)
	return append(out, b...)
}

func sameSet(a, b []string) bool {
	a = append([]string{}, a...)
	b = append([]string{}, b...)
	sort.Strings(a)
	sort.Strings(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
