package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/mixity/internal/model"
)

//go:embed catalog.schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("catalog.schema.json", schemaSource)
	})
	return schema, schemaErr
}

// document is the on-disk catalog layout.
type document struct {
	Kinds []kindRow `yaml:"kinds"`
}

type kindRow struct {
	Name        string                      `yaml:"name"`
	Archetype   string                      `yaml:"archetype"`
	BaseSize    float64                     `yaml:"base_size"`
	SpawnWeight float64                     `yaml:"spawn_weight"`
	Footprint   *model.FootprintShape       `yaml:"footprint"`
	Ingredient  *model.IngredientDescriptor `yaml:"ingredient"`
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	slog.Info("catalog loaded", "path", path, "kinds", c.Len(), "total_weight", c.TotalWeight())
	return c, nil
}

// Parse decodes YAML catalog content, validates it against the catalog
// schema and builds the catalog.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding kinds: %w", err)
	}

	kinds := make([]model.SpawnableKind, 0, len(doc.Kinds))
	for _, row := range doc.Kinds {
		kinds = append(kinds, model.SpawnableKind{
			Name:        row.Name,
			Archetype:   model.Archetype(row.Archetype),
			BaseSize:    row.BaseSize,
			SpawnWeight: row.SpawnWeight,
			Footprint:   row.Footprint,
			Ingredient:  row.Ingredient,
		})
	}
	return New(kinds)
}

// validateSchema checks a decoded YAML document against the catalog schema.
// The document goes through a JSON round trip so the validator sees plain
// JSON values.
func validateSchema(raw any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling catalog schema: %w", err)
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("converting catalog to json: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("converting catalog to json: %w", err)
	}

	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKind, err)
	}
	return nil
}
