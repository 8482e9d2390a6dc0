package world

import "github.com/udisondev/mixity/internal/model"

// OccupiedIndex holds the footprints accepted during one placement pass.
//
// Overlap uses the product-of-radii test:
//
//	distance²(p, span) < r * span.Radius
//
// Not a sum-of-radii test. Placement density depends on it, keep it as is.
type OccupiedIndex interface {
	// Overlaps reports whether a footprint of radius r at p collides with any span.
	Overlaps(p model.Vec2, r float64) bool
	// Insert records an accepted footprint.
	Insert(span model.OccupiedSpan)
	// Len returns the number of recorded spans.
	Len() int
	// Spans returns recorded spans in insertion order.
	Spans() []model.OccupiedSpan
	// Reset discards every span.
	Reset()
}

// Collides is the overlap predicate shared by every index implementation.
func Collides(p model.Vec2, r float64, span model.OccupiedSpan) bool {
	return p.DistanceSquared(span.Position) < r*span.Radius
}

// FlatIndex is a plain slice checked by brute force.
type FlatIndex struct {
	spans []model.OccupiedSpan
}

// NewFlatIndex creates an empty flat index with room for capacity spans.
func NewFlatIndex(capacity int) *FlatIndex {
	return &FlatIndex{spans: make([]model.OccupiedSpan, 0, capacity)}
}

func (f *FlatIndex) Overlaps(p model.Vec2, r float64) bool {
	for _, span := range f.spans {
		if Collides(p, r, span) {
			return true
		}
	}
	return false
}

func (f *FlatIndex) Insert(span model.OccupiedSpan) {
	f.spans = append(f.spans, span)
}

func (f *FlatIndex) Len() int {
	return len(f.spans)
}

func (f *FlatIndex) Spans() []model.OccupiedSpan {
	out := make([]model.OccupiedSpan, len(f.spans))
	copy(out, f.spans)
	return out
}

func (f *FlatIndex) Reset() {
	f.spans = f.spans[:0]
}
