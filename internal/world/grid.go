package world

import (
	"fmt"
	"math"

	"github.com/udisondev/mixity/internal/model"
)

// DefaultCellSize is the grid cell side used when none is configured.
// Roughly twice the largest catalog footprint.
const DefaultCellSize = 8.0

// MinCellSize is the smallest configurable cell side. Smaller cells make
// every query window wider than the population.
const MinCellSize = 0.01

// maxCell bounds cell coordinates so that floor(v/cellSize) stays an exact
// integer in float64 and converts to int64 without overflow.
const maxCell = 1 << 52

// cellKey addresses one grid cell.
// Formula: floor(coord / cellSize) per axis.
type cellKey struct {
	cx, cy int64
}

// GridIndex buckets spans into a uniform grid.
// Answers are identical to FlatIndex: a candidate of radius r can only collide
// with a span of radius s if d² < r*s <= r*maxRadius, so only cells within
// sqrt(r*maxRadius) (plus one cell of slack for rounding) are visited.
// Spans whose cell coordinate does not fit maxCell live in wide and are
// always scanned.
type GridIndex struct {
	cellSize  float64
	cells     map[cellKey][]model.OccupiedSpan
	wide      []model.OccupiedSpan
	spans     []model.OccupiedSpan // insertion order
	maxRadius float64
}

// NewGridIndex creates an empty grid index. Non-positive cellSize falls back to DefaultCellSize.
func NewGridIndex(cellSize float64) *GridIndex {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	return &GridIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey][]model.OccupiedSpan),
	}
}

// CellSize returns the grid cell side.
func (g *GridIndex) CellSize() float64 {
	return g.cellSize
}

// cell returns floor(v/cellSize) as a float. ok is false when the value is
// not finite or exceeds maxCell.
func (g *GridIndex) cell(v float64) (float64, bool) {
	c := math.Floor(v / g.cellSize)
	return c, c >= -maxCell && c <= maxCell
}

func (g *GridIndex) keyOf(p model.Vec2) (cellKey, bool) {
	cx, okX := g.cell(p.X)
	cy, okY := g.cell(p.Y)
	if !okX || !okY {
		return cellKey{}, false
	}
	return cellKey{cx: int64(cx), cy: int64(cy)}, true
}

func (g *GridIndex) Overlaps(p model.Vec2, r float64) bool {
	if len(g.spans) == 0 {
		return false
	}

	reach := math.Sqrt(r * g.maxRadius)
	minX, okMinX := g.cell(p.X - reach)
	maxX, okMaxX := g.cell(p.X + reach)
	minY, okMinY := g.cell(p.Y - reach)
	maxY, okMaxY := g.cell(p.Y + reach)
	minX, maxX, minY, maxY = minX-1, maxX+1, minY-1, maxY+1

	// Window wider than the population or outside the addressable range:
	// a linear scan is cheaper and always exact.
	window := (maxX - minX + 1) * (maxY - minY + 1)
	if !okMinX || !okMaxX || !okMinY || !okMaxY || !(window <= float64(len(g.spans))) {
		return g.scan(g.spans, p, r)
	}

	if g.scan(g.wide, p, r) {
		return true
	}
	for cy := int64(minY); cy <= int64(maxY); cy++ {
		for cx := int64(minX); cx <= int64(maxX); cx++ {
			if g.scan(g.cells[cellKey{cx: cx, cy: cy}], p, r) {
				return true
			}
		}
	}
	return false
}

func (g *GridIndex) scan(spans []model.OccupiedSpan, p model.Vec2, r float64) bool {
	for _, span := range spans {
		if Collides(p, r, span) {
			return true
		}
	}
	return false
}

func (g *GridIndex) Insert(span model.OccupiedSpan) {
	if key, ok := g.keyOf(span.Position); ok {
		g.cells[key] = append(g.cells[key], span)
	} else {
		g.wide = append(g.wide, span)
	}
	g.spans = append(g.spans, span)
	if span.Radius > g.maxRadius {
		g.maxRadius = span.Radius
	}
}

func (g *GridIndex) Len() int {
	return len(g.spans)
}

func (g *GridIndex) Spans() []model.OccupiedSpan {
	out := make([]model.OccupiedSpan, len(g.spans))
	copy(out, g.spans)
	return out
}

func (g *GridIndex) Reset() {
	clear(g.cells)
	g.wide = g.wide[:0]
	g.spans = g.spans[:0]
	g.maxRadius = 0
}

// Index kinds accepted by IndexConfig.
const (
	IndexFlat = "flat"
	IndexGrid = "grid"
)

// IndexConfig selects the occupied-space index implementation.
type IndexConfig struct {
	Kind     string  `yaml:"kind"`
	CellSize float64 `yaml:"cell_size"`
}

// Validate rejects unknown kinds and cell sizes the grid cannot use.
// Zero cell size means DefaultCellSize.
func (c IndexConfig) Validate() error {
	switch c.Kind {
	case "", IndexFlat, IndexGrid:
	default:
		return fmt.Errorf("unknown index kind %q", c.Kind)
	}
	if c.CellSize == 0 {
		return nil
	}
	if math.IsNaN(c.CellSize) || math.IsInf(c.CellSize, 0) || c.CellSize < MinCellSize {
		return fmt.Errorf("index cell size %v: must be 0 or finite and >= %v", c.CellSize, MinCellSize)
	}
	return nil
}

// NewIndex builds the index described by cfg. An empty kind means flat.
func NewIndex(cfg IndexConfig, capacity int) OccupiedIndex {
	if cfg.Kind == IndexGrid {
		return NewGridIndex(cfg.CellSize)
	}
	return NewFlatIndex(capacity)
}
