package consecutive

// Sequence is a maximal run of values where each difference to the previous value stays within the analyzer's max gap.
// A Sequence is a snapshot: it owns a copy of its values.
type Sequence[V any, D any] struct {
	items  []V
	length D
}

func (s *Sequence[V, D]) First() V {
	return s.items[0]
}

func (s *Sequence[V, D]) Last() V {
	return s.items[len(s.items)-1]
}

func (s *Sequence[V, D]) Count() int {
	return len(s.items)
}

// Items returns a copy of the values, in input order.
func (s *Sequence[V, D]) Items() []V {
	return append([]V(nil), s.items...)
}

// Length is the difference between the last and the first value (zero for a single value).
func (s *Sequence[V, D]) Length() D {
	return s.length
}

// Break is the gap between two adjacent sequences.
type Break[V any, D any] struct {
	prev   *Sequence[V, D]
	next   *Sequence[V, D]
	length D
}

func (b *Break[V, D]) PreviousSequence() *Sequence[V, D] {
	return b.prev
}

func (b *Break[V, D]) NextSequence() *Sequence[V, D] {
	return b.next
}

// PreviousSequenceEnd is the last value before the gap.
func (b *Break[V, D]) PreviousSequenceEnd() V {
	return b.prev.Last()
}

// NextSequenceStart is the first value after the gap.
func (b *Break[V, D]) NextSequenceStart() V {
	return b.next.First()
}

// Length is the difference between the next sequence's first value and the previous sequence's last value.
func (b *Break[V, D]) Length() D {
	return b.length
}

// Result is the materialized form of an analysis, safe to traverse repeatedly.
type Result[V any, D any] struct {
	sequences []*Sequence[V, D]
	breaks    []*Break[V, D]
}

func (r *Result[V, D]) Sequences() []*Sequence[V, D] {
	return r.sequences
}

func (r *Result[V, D]) Breaks() []*Break[V, D] {
	return r.breaks
}

func (r *Result[V, D]) SequenceCount() int {
	return len(r.sequences)
}

func (r *Result[V, D]) BreakCount() int {
	return len(r.breaks)
}
