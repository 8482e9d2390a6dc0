package model

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Archetype is a categorical tag for a spawnable kind.
// The set is open: any non-empty value is a valid archetype.
type Archetype string

const (
	ArchetypeTree     Archetype = "tree"
	ArchetypeBush     Archetype = "bush"
	ArchetypeMushroom Archetype = "mushroom"
)

// Title returns the archetype with its first letter upper-cased ("tree" → "Tree").
func (a Archetype) Title() string {
	s := string(a)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FootprintShape is a precomputed collision volume.
// Opaque to the placer; forwarded verbatim to the spawn sink.
type FootprintShape struct {
	Shape      string  `yaml:"shape" json:"shape"` // "cylinder", "ball", "cuboid"
	Radius     float64 `yaml:"radius" json:"radius"`
	HalfHeight float64 `yaml:"half_height" json:"half_height"`
	OffsetY    float64 `yaml:"offset_y" json:"offset_y"`
}

// IngredientType is the family an ingredient belongs to.
type IngredientType string

const (
	IngredientPlant    IngredientType = "plant"
	IngredientMushroom IngredientType = "mushroom"
	IngredientBerry    IngredientType = "berry"
	IngredientRoot     IngredientType = "root"
)

// IngredientDescriptor describes pickup behavior of a spawnable kind.
type IngredientDescriptor struct {
	Type IngredientType `yaml:"type" json:"type"`
}

// IngredientInstance is a concrete ingredient rolled for one placement.
type IngredientInstance struct {
	Type IngredientType `json:"type"`
	Name string         `json:"name"`
	Rare bool           `json:"rare"`
}

// SpawnableKind is one immutable catalog row.
type SpawnableKind struct {
	Name        string
	Archetype   Archetype
	BaseSize    float64 // nominal footprint radius, also the base visual scale
	SpawnWeight float64 // relative likelihood, normalized across the catalog at selection time
	Footprint   *FootprintShape
	Ingredient  *IngredientDescriptor
}

// Validate checks the kind invariants: weight is finite and non-negative,
// base size is finite and positive.
func (k SpawnableKind) Validate() error {
	if strings.TrimSpace(k.Name) == "" {
		return fmt.Errorf("kind has empty name")
	}
	if k.Archetype == "" {
		return fmt.Errorf("kind %q has empty archetype", k.Name)
	}
	if math.IsNaN(k.SpawnWeight) || math.IsInf(k.SpawnWeight, 0) || k.SpawnWeight < 0 {
		return fmt.Errorf("kind %q has invalid spawn weight %v", k.Name, k.SpawnWeight)
	}
	if math.IsNaN(k.BaseSize) || math.IsInf(k.BaseSize, 0) || k.BaseSize <= 0 {
		return fmt.Errorf("kind %q has invalid base size %v", k.Name, k.BaseSize)
	}
	return nil
}
