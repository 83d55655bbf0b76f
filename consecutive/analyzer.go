package consecutive

import (
	"cmp"
	"iter"
	"slices"
	"time"

	"github.com/xinkaiwang/solvercore/kerror"
)

// Analyzer partitions an ascending stream of values into sequences and breaks.
// A new sequence starts whenever the difference to the previous value is greater than maxGap.
// Analyzer is stateless and safe for concurrent use.
type Analyzer[V any, D any] struct {
	difference func(prev, next V) D
	compare    func(a, b D) int
	maxGap     D
}

func NewAnalyzer[V any, D any](difference func(prev, next V) D, compare func(a, b D) int, maxGap D) *Analyzer[V, D] {
	return &Analyzer[V, D]{
		difference: difference,
		compare:    compare,
		maxGap:     maxGap,
	}
}

// NewOrderedAnalyzer: differences are naturally ordered (ints, floats, durations...).
func NewOrderedAnalyzer[V any, D cmp.Ordered](difference func(prev, next V) D, maxGap D) *Analyzer[V, D] {
	return NewAnalyzer(difference, cmp.Compare[D], maxGap)
}

// NewIntAnalyzer: maxGap=1 means "strictly adjacent integers".
func NewIntAnalyzer(maxGap int) *Analyzer[int, int] {
	return NewOrderedAnalyzer(func(prev, next int) int { return next - prev }, maxGap)
}

func NewTimeAnalyzer(maxGap time.Duration) *Analyzer[time.Time, time.Duration] {
	return NewOrderedAnalyzer(func(prev, next time.Time) time.Duration { return next.Sub(prev) }, maxGap)
}

func (a *Analyzer[V, D]) newSequence(items []V) *Sequence[V, D] {
	return &Sequence[V, D]{
		items:  items,
		length: a.difference(items[0], items[len(items)-1]),
	}
}

func (a *Analyzer[V, D]) newBreak(prev, next *Sequence[V, D]) *Break[V, D] {
	return &Break[V, D]{
		prev:   prev,
		next:   next,
		length: a.difference(prev.Last(), next.First()),
	}
}

// Sequences is the lazy, single pass form. Only the sequence being built is held in memory.
// Panics (EC_INVALID_PARAMETER) if the input is not ascending.
func (a *Analyzer[V, D]) Sequences(values iter.Seq[V]) iter.Seq[*Sequence[V, D]] {
	return func(yield func(*Sequence[V, D]) bool) {
		var current []V
		index := -1
		for v := range values {
			index++
			if len(current) == 0 {
				current = append(current, v)
				continue
			}
			prev := current[len(current)-1]
			diff := a.difference(prev, v)
			if a.compare(diff, a.difference(prev, prev)) < 0 {
				panic(kerror.Create("UnsortedInput", "values must be sorted ascending").With("index", index).WithErrorCode(kerror.EC_INVALID_PARAMETER))
			}
			if a.compare(diff, a.maxGap) > 0 {
				if !yield(a.newSequence(current)) {
					return
				}
				current = nil
			}
			current = append(current, v)
		}
		if len(current) > 0 {
			yield(a.newSequence(current))
		}
	}
}

// Breaks is the lazy form of the gaps. It holds at most two sequences at a time.
func (a *Analyzer[V, D]) Breaks(values iter.Seq[V]) iter.Seq[*Break[V, D]] {
	return func(yield func(*Break[V, D]) bool) {
		var prev *Sequence[V, D]
		for seq := range a.Sequences(values) {
			if prev != nil {
				if !yield(a.newBreak(prev, seq)) {
					return
				}
			}
			prev = seq
		}
	}
}

// Analyze is the eager form, built from the same pass as Sequences.
func (a *Analyzer[V, D]) Analyze(values []V) *Result[V, D] {
	result := &Result[V, D]{}
	for seq := range a.Sequences(slices.Values(values)) {
		if len(result.sequences) > 0 {
			result.breaks = append(result.breaks, a.newBreak(result.sequences[len(result.sequences)-1], seq))
		}
		result.sequences = append(result.sequences, seq)
	}
	return result
}
