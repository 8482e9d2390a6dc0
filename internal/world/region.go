package world

import (
	"fmt"
	"math"

	"github.com/udisondev/mixity/internal/model"
)

// Rand is the random source regions sample from.
type Rand interface {
	Float64() float64
}

// Region is a bounded placement area.
// Sample must be uniform per unit area over the region.
type Region interface {
	// Center returns the point of interest the exclusion zone is measured from.
	Center() model.Vec2
	// Contains reports whether p lies inside the region (boundary inclusive).
	Contains(p model.Vec2) bool
	// Sample draws a point uniformly inside the region.
	Sample(r Rand) model.Vec2
	// Area returns the region area in square units.
	Area() float64
}

// Square is an axis-aligned square of side 2*HalfExtent around Origin.
type Square struct {
	Origin     model.Vec2
	HalfExtent float64
}

func (s Square) Center() model.Vec2 { return s.Origin }

func (s Square) Contains(p model.Vec2) bool {
	d := p.Sub(s.Origin)
	return math.Abs(d.X) <= s.HalfExtent && math.Abs(d.Y) <= s.HalfExtent
}

// Sample draws x and y independently from [-HalfExtent, HalfExtent).
func (s Square) Sample(r Rand) model.Vec2 {
	x := (2*r.Float64() - 1) * s.HalfExtent
	y := (2*r.Float64() - 1) * s.HalfExtent
	return s.Origin.Add(model.Vec2{X: x, Y: y})
}

func (s Square) Area() float64 {
	side := 2 * s.HalfExtent
	return side * side
}

func (s Square) String() string {
	return fmt.Sprintf("square(%g) at (%g, %g)", s.HalfExtent, s.Origin.X, s.Origin.Y)
}

// Rect is an axis-aligned rectangle around Origin.
type Rect struct {
	Origin     model.Vec2
	HalfWidth  float64
	HalfHeight float64
}

func (rc Rect) Center() model.Vec2 { return rc.Origin }

func (rc Rect) Contains(p model.Vec2) bool {
	d := p.Sub(rc.Origin)
	return math.Abs(d.X) <= rc.HalfWidth && math.Abs(d.Y) <= rc.HalfHeight
}

func (rc Rect) Sample(r Rand) model.Vec2 {
	x := (2*r.Float64() - 1) * rc.HalfWidth
	y := (2*r.Float64() - 1) * rc.HalfHeight
	return rc.Origin.Add(model.Vec2{X: x, Y: y})
}

func (rc Rect) Area() float64 {
	return 4 * rc.HalfWidth * rc.HalfHeight
}

func (rc Rect) String() string {
	return fmt.Sprintf("rect(%gx%g) at (%g, %g)", rc.HalfWidth, rc.HalfHeight, rc.Origin.X, rc.Origin.Y)
}

// Disk is a circle of Radius around Origin.
type Disk struct {
	Origin model.Vec2
	Radius float64
}

func (d Disk) Center() model.Vec2 { return d.Origin }

func (d Disk) Contains(p model.Vec2) bool {
	return p.DistanceSquared(d.Origin) <= d.Radius*d.Radius
}

// Sample draws a point uniformly per unit area.
// The radius is sqrt(u)*R: drawing u*R directly would bias toward the center.
func (d Disk) Sample(r Rand) model.Vec2 {
	theta := (2*r.Float64() - 1) * math.Pi
	rho := math.Sqrt(r.Float64()) * d.Radius
	return d.Origin.Add(model.Vec2{X: rho * math.Cos(theta), Y: rho * math.Sin(theta)})
}

func (d Disk) Area() float64 {
	return math.Pi * d.Radius * d.Radius
}

func (d Disk) String() string {
	return fmt.Sprintf("disk(%g) at (%g, %g)", d.Radius, d.Origin.X, d.Origin.Y)
}

// Region shapes accepted by RegionConfig.
const (
	ShapeSquare = "square"
	ShapeDisk   = "disk"
	ShapeRect   = "rect"
)

// RegionConfig describes a region in configuration files.
type RegionConfig struct {
	Shape      string  `yaml:"shape"`
	Radius     float64 `yaml:"radius"`      // disk
	HalfExtent float64 `yaml:"half_extent"` // square
	HalfWidth  float64 `yaml:"half_width"`  // rect
	HalfHeight float64 `yaml:"half_height"` // rect
	CenterX    float64 `yaml:"center_x"`
	CenterY    float64 `yaml:"center_y"`
}

// NewRegion builds the region described by cfg.
func NewRegion(cfg RegionConfig) (Region, error) {
	center := model.Vec2{X: cfg.CenterX, Y: cfg.CenterY}
	switch cfg.Shape {
	case ShapeDisk:
		if !(cfg.Radius > 0) || math.IsInf(cfg.Radius, 0) {
			return nil, fmt.Errorf("disk region: invalid radius %v", cfg.Radius)
		}
		return Disk{Origin: center, Radius: cfg.Radius}, nil
	case ShapeSquare:
		if !(cfg.HalfExtent > 0) || math.IsInf(cfg.HalfExtent, 0) {
			return nil, fmt.Errorf("square region: invalid half extent %v", cfg.HalfExtent)
		}
		return Square{Origin: center, HalfExtent: cfg.HalfExtent}, nil
	case ShapeRect:
		if !(cfg.HalfWidth > 0) || !(cfg.HalfHeight > 0) ||
			math.IsInf(cfg.HalfWidth, 0) || math.IsInf(cfg.HalfHeight, 0) {
			return nil, fmt.Errorf("rect region: invalid half size %vx%v", cfg.HalfWidth, cfg.HalfHeight)
		}
		return Rect{Origin: center, HalfWidth: cfg.HalfWidth, HalfHeight: cfg.HalfHeight}, nil
	default:
		return nil, fmt.Errorf("unknown region shape %q", cfg.Shape)
	}
}
