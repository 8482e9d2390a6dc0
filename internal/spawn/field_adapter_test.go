package spawn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mixity/internal/config"
	"github.com/udisondev/mixity/internal/world"
)

func TestFieldFromConfig_Default(t *testing.T) {
	f, err := FieldFromConfig(config.DefaultField())
	require.NoError(t, err)

	assert.Equal(t, "meadow", f.Name)
	assert.Equal(t, SeedFromPhrase("mixity"), f.Seed)
	assert.Equal(t, world.Disk{Radius: 200}, f.Config.Region)
	assert.Equal(t, 12000, f.Config.Attempts)
	assert.Equal(t, 12.0, f.Config.ExclusionRadius)
	assert.Equal(t, 0.005, f.Config.RarityProbability)
	assert.Equal(t, ScaleRange{Min: 0.7, Max: 1.35}, f.Config.CommonScale)
	assert.Equal(t, ScaleRange{Min: 1.0, Max: 2.0}, f.Config.RareScale)
	assert.Equal(t, world.IndexGrid, f.Index.Kind)
}

func TestFieldFromConfig_ExplicitSeed(t *testing.T) {
	fc := config.DefaultField()
	seed := uint64(42)
	fc.SeedPhrase = ""
	fc.Seed = &seed
	fc.RarityProbability = nil

	f, err := FieldFromConfig(fc)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), f.Seed)
	assert.Equal(t, config.DefaultRarityProbability, f.Config.RarityProbability)
}

func TestFieldFromConfig_Invalid(t *testing.T) {
	seed := uint64(1)
	tests := []struct {
		name   string
		mutate func(*config.Field)
	}{
		{"no seed", func(f *config.Field) { f.SeedPhrase = "" }},
		{"both seeds", func(f *config.Field) { f.Seed = &seed }},
		{"bad shape", func(f *config.Field) { f.Region.Shape = "hexagon" }},
		{"zero radius", func(f *config.Field) { f.Region.Radius = 0 }},
		{"negative attempts", func(f *config.Field) { f.Attempts = -5 }},
		{"bad index", func(f *config.Field) { f.Index.Kind = "quadtree" }},
		{"tiny cell size", func(f *config.Field) { f.Index.CellSize = 1e-8 }},
		{"negative cell size", func(f *config.Field) { f.Index.CellSize = -1 }},
		{"infinite cell size", func(f *config.Field) { f.Index.CellSize = math.Inf(1) }},
		{"nan cell size", func(f *config.Field) { f.Index.CellSize = math.NaN() }},
		{"inverted scale", func(f *config.Field) { f.CommonScale = config.ScaleConfig{Min: 2, Max: 1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := config.DefaultField()
			tt.mutate(&fc)
			_, err := FieldFromConfig(fc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "meadow")
		})
	}
}

func TestFieldsFromConfig(t *testing.T) {
	cfg := config.DefaultPlacer()
	second := config.DefaultField()
	second.Name = "glade"
	second.Region = world.RegionConfig{Shape: world.ShapeRect, HalfWidth: 40, HalfHeight: 10, CenterX: 100}
	cfg.Fields = append(cfg.Fields, second)

	fields, err := FieldsFromConfig(cfg)
	require.NoError(t, err)
	require.Len(t, fields, len(cfg.Fields))
	assert.Equal(t, "glade", fields[len(fields)-1].Name)
	assert.Equal(t, 1600.0, fields[len(fields)-1].Config.Region.Area())
}
