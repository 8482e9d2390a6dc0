package spawn

import (
	"fmt"

	"github.com/udisondev/mixity/internal/config"
	"github.com/udisondev/mixity/internal/world"
)

// FieldFromConfig converts a YAML field into a runnable Field.
func FieldFromConfig(fc config.Field) (Field, error) {
	region, err := world.NewRegion(fc.Region)
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %w", fc.Name, err)
	}

	var seed uint64
	switch {
	case fc.SeedPhrase != "" && fc.Seed != nil:
		return Field{}, fmt.Errorf("field %q: %w: seed and seed_phrase are mutually exclusive", fc.Name, ErrInvalidConfig)
	case fc.SeedPhrase != "":
		seed = SeedFromPhrase(fc.SeedPhrase)
	case fc.Seed != nil:
		seed = *fc.Seed
	default:
		return Field{}, fmt.Errorf("field %q: %w: seed or seed_phrase required", fc.Name, ErrInvalidConfig)
	}

	rarity := config.DefaultRarityProbability
	if fc.RarityProbability != nil {
		rarity = *fc.RarityProbability
	}

	f := Field{
		Name: fc.Name,
		Seed: seed,
		Config: Config{
			Region:            region,
			Attempts:          fc.Attempts,
			ExclusionRadius:   fc.ExclusionRadius,
			RarityProbability: rarity,
			CommonScale:       ScaleRange{Min: fc.CommonScale.Min, Max: fc.CommonScale.Max},
			RareScale:         ScaleRange{Min: fc.RareScale.Min, Max: fc.RareScale.Max},
			GroundHeight:      fc.GroundHeight,
		},
		Index: fc.Index,
		Kinds: fc.Kinds,
	}

	if err := f.Index.Validate(); err != nil {
		return Field{}, fmt.Errorf("field %q: %w: %w", fc.Name, ErrInvalidConfig, err)
	}
	if err := f.Config.Validate(); err != nil {
		return Field{}, fmt.Errorf("field %q: %w", fc.Name, err)
	}
	return f, nil
}

// FieldsFromConfig converts every configured field.
func FieldsFromConfig(cfg config.Placer) ([]Field, error) {
	fields := make([]Field, 0, len(cfg.Fields))
	for _, fc := range cfg.Fields {
		f, err := FieldFromConfig(fc)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}
