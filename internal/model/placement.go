package model

import "fmt"

// OccupiedSpan is the footprint of one accepted placement.
// Created once per accepted placement, never mutated.
type OccupiedSpan struct {
	Position Vec2
	Radius   float64
}

// PlacementResult is the only artifact handed to a spawn sink.
type PlacementResult struct {
	Seq       int // attempt index within the pass
	Name      string
	KindIndex int
	Kind      *SpawnableKind
	Archetype Archetype
	Position  Vec3 // Y is ground height
	Yaw       float64
	Scale     float64
	Radius    float64 // effective collision radius, BaseSize * Scale
	Rare      bool

	Footprint  *FootprintShape
	Ingredient *IngredientInstance // filled by ingredient decoration, nil otherwise
}

// Span returns the occupied span this placement claimed.
func (r PlacementResult) Span() OccupiedSpan {
	return OccupiedSpan{Position: r.Position.Ground(), Radius: r.Radius}
}

// InstanceName builds the display name of a placed instance ("Tree 17").
func InstanceName(a Archetype, seq int) string {
	return fmt.Sprintf("%s %d", a.Title(), seq)
}
