// Package weighted draws items from a list proportionally to their weights.
package weighted

// Rand is the random source a Selector draws from.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Entry pairs an item with its relative weight.
type Entry[T any] struct {
	Weight float64
	Item   T
}

// Selector picks items with P(item_i) = weight_i / Σweights.
// Immutable after New; safe for concurrent Pick calls with distinct Rand sources.
type Selector[T any] struct {
	entries []Entry[T] // positive weights only, input order preserved
	total   float64
}

// New builds a selector. Entries with a weight that is not strictly positive
// (zero, negative, NaN) are dropped and never selected.
func New[T any](entries []Entry[T]) *Selector[T] {
	s := &Selector[T]{entries: make([]Entry[T], 0, len(entries))}
	for _, e := range entries {
		if !(e.Weight > 0) {
			continue
		}
		s.entries = append(s.entries, e)
		s.total += e.Weight
	}
	return s
}

// Len returns the number of selectable entries.
func (s *Selector[T]) Len() int {
	return len(s.entries)
}

// Total returns the sum of selectable weights.
func (s *Selector[T]) Total() float64 {
	return s.total
}

// Probability returns the selection probability of the i-th selectable entry.
func (s *Selector[T]) Probability(i int) float64 {
	if s.total <= 0 || i < 0 || i >= len(s.entries) {
		return 0
	}
	return s.entries[i].Weight / s.total
}

// Pick draws one item. It returns false for an empty or all-zero selector
// and consumes no randomness in that case.
//
// The draw u ∈ [0, total) is walked by subtraction; the first entry that
// brings the remainder to or below zero wins. If summation drift leaves a
// residual the last entry is returned so no entry is silently dropped.
func (s *Selector[T]) Pick(r Rand) (T, bool) {
	var zero T
	if len(s.entries) == 0 || !(s.total > 0) {
		return zero, false
	}

	remainder := r.Float64() * s.total
	for _, e := range s.entries {
		remainder -= e.Weight
		if remainder <= 0 {
			return e.Item, true
		}
	}
	return s.entries[len(s.entries)-1].Item, true
}
