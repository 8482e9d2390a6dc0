package config

import "github.com/udisondev/mixity/internal/world"

// ScaleConfig is a uniform scale range [min, max).
type ScaleConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Field is one placement job.
type Field struct {
	Name string `yaml:"name"`

	// Exactly one of Seed and SeedPhrase must be set.
	Seed       *uint64 `yaml:"seed"`
	SeedPhrase string  `yaml:"seed_phrase"`

	Region            world.RegionConfig `yaml:"region"`
	Attempts          int                `yaml:"attempts"`
	ExclusionRadius   float64            `yaml:"exclusion_radius"`
	RarityProbability *float64           `yaml:"rarity_probability"`
	CommonScale       ScaleConfig        `yaml:"common_scale"`
	RareScale         ScaleConfig        `yaml:"rare_scale"`
	GroundHeight      float64            `yaml:"ground_height"`
	Index             world.IndexConfig  `yaml:"index"`

	// Kinds restricts the field to a subset of the catalog. Empty means all kinds.
	Kinds []string `yaml:"kinds"`
}

// DefaultRarityProbability is the chance an accepted placement is rare (1 in 200).
const DefaultRarityProbability = 0.005

// DefaultField returns the field used when no config file is present.
func DefaultField() Field {
	rarity := DefaultRarityProbability
	return Field{
		Name:       "meadow",
		SeedPhrase: "mixity",
		Region: world.RegionConfig{
			Shape:  world.ShapeDisk,
			Radius: 200,
		},
		Attempts:          12000,
		ExclusionRadius:   12,
		RarityProbability: &rarity,
		CommonScale:       ScaleConfig{Min: 0.7, Max: 1.35},
		RareScale:         ScaleConfig{Min: 1.0, Max: 2.0},
		Index: world.IndexConfig{
			Kind:     world.IndexGrid,
			CellSize: world.DefaultCellSize,
		},
	}
}

func (f *Field) normalize() {
	def := DefaultField()
	if f.Region.Shape == "" {
		f.Region.Shape = def.Region.Shape
		if f.Region.Radius == 0 {
			f.Region.Radius = def.Region.Radius
		}
	}
	if f.Attempts == 0 {
		f.Attempts = def.Attempts
	}
	if f.RarityProbability == nil {
		f.RarityProbability = def.RarityProbability
	}
	if f.CommonScale == (ScaleConfig{}) {
		f.CommonScale = def.CommonScale
	}
	if f.RareScale == (ScaleConfig{}) {
		f.RareScale = def.RareScale
	}
	if f.Index.Kind == "" {
		f.Index.Kind = world.IndexFlat
	}
}
