package consecutive

import (
	"slices"
)

// Tracker keeps values sorted as they get added and removed, so an incremental score calculator
// can re-analyze one entity's values after each change without re-sorting them.
// Duplicates are allowed. Not thread safe.
type Tracker[V any, D any] struct {
	analyzer      *Analyzer[V, D]
	compareValues func(a, b V) int
	values        []V
	cached        *Result[V, D]
}

func NewTracker[V any, D any](analyzer *Analyzer[V, D], compareValues func(a, b V) int) *Tracker[V, D] {
	return &Tracker[V, D]{
		analyzer:      analyzer,
		compareValues: compareValues,
	}
}

func (t *Tracker[V, D]) Add(v V) {
	idx, _ := slices.BinarySearchFunc(t.values, v, t.compareValues)
	t.values = slices.Insert(t.values, idx, v)
	t.cached = nil
}

// Remove drops one occurrence of v. Returns false if v is not tracked.
func (t *Tracker[V, D]) Remove(v V) bool {
	idx, found := slices.BinarySearchFunc(t.values, v, t.compareValues)
	if !found {
		return false
	}
	t.values = slices.Delete(t.values, idx, idx+1)
	t.cached = nil
	return true
}

func (t *Tracker[V, D]) Len() int {
	return len(t.values)
}

func (t *Tracker[V, D]) Values() []V {
	return slices.Clone(t.values)
}

// Analyze returns the current sequences and breaks. The result is reused until the next Add/Remove.
func (t *Tracker[V, D]) Analyze() *Result[V, D] {
	if t.cached == nil {
		t.cached = t.analyzer.Analyze(t.values)
	}
	return t.cached
}
