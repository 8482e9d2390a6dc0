// Package catalog holds the immutable weighted list of spawnable kinds.
package catalog

import (
	"errors"
	"fmt"

	"github.com/udisondev/mixity/internal/model"
)

var (
	// ErrInvalidKind is returned when a catalog row violates kind invariants.
	ErrInvalidKind = errors.New("invalid spawnable kind")
	// ErrUnknownKind is returned when a kind name is not in the catalog.
	ErrUnknownKind = errors.New("unknown spawnable kind")
)

// Catalog is a read-only, indexable view of spawnable kinds.
// Loaded once before any placement pass and never mutated afterwards.
type Catalog struct {
	kinds  []model.SpawnableKind
	byName map[string]int
	total  float64
}

// New validates kinds and builds a catalog from a copy of them.
// A catalog whose weights are all zero is valid but degenerate: selection
// against it never yields a kind.
func New(kinds []model.SpawnableKind) (*Catalog, error) {
	c := &Catalog{
		kinds:  make([]model.SpawnableKind, 0, len(kinds)),
		byName: make(map[string]int, len(kinds)),
	}
	for i, k := range kinds {
		if err := k.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidKind, i, err)
		}
		if _, dup := c.byName[k.Name]; dup {
			return nil, fmt.Errorf("%w: row %d: duplicate name %q", ErrInvalidKind, i, k.Name)
		}
		c.byName[k.Name] = len(c.kinds)
		c.kinds = append(c.kinds, cloneKind(k))
		c.total += k.SpawnWeight
	}
	return c, nil
}

// cloneKind copies the optional payloads so callers cannot mutate catalog rows.
func cloneKind(k model.SpawnableKind) model.SpawnableKind {
	if k.Footprint != nil {
		fp := *k.Footprint
		k.Footprint = &fp
	}
	if k.Ingredient != nil {
		ing := *k.Ingredient
		k.Ingredient = &ing
	}
	return k
}

// Len returns the number of kinds.
func (c *Catalog) Len() int {
	return len(c.kinds)
}

// Kind returns a pointer to the i-th kind. The pointee must not be modified.
func (c *Catalog) Kind(i int) *model.SpawnableKind {
	return &c.kinds[i]
}

// Kinds returns a copy of every kind in catalog order.
func (c *Catalog) Kinds() []model.SpawnableKind {
	out := make([]model.SpawnableKind, len(c.kinds))
	for i, k := range c.kinds {
		out[i] = cloneKind(k)
	}
	return out
}

// Names returns kind names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.kinds))
	for i, k := range c.kinds {
		out[i] = k.Name
	}
	return out
}

// ByName returns the index of the named kind.
func (c *Catalog) ByName(name string) (int, bool) {
	i, ok := c.byName[name]
	return i, ok
}

// TotalWeight returns the sum of spawn weights.
func (c *Catalog) TotalWeight() float64 {
	return c.total
}

// Degenerate reports whether no kind can ever be selected.
func (c *Catalog) Degenerate() bool {
	return !(c.total > 0)
}

// Archetypes returns the distinct archetypes in first-seen order.
func (c *Catalog) Archetypes() []model.Archetype {
	seen := make(map[model.Archetype]bool)
	var out []model.Archetype
	for _, k := range c.kinds {
		if !seen[k.Archetype] {
			seen[k.Archetype] = true
			out = append(out, k.Archetype)
		}
	}
	return out
}

// Subset returns a catalog restricted to the named kinds, in catalog order.
// An empty names list returns c itself.
func (c *Catalog) Subset(names []string) (*Catalog, error) {
	if len(names) == 0 {
		return c, nil
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := c.byName[name]; !ok {
			if hint := Suggest(name, c.Names()); hint != "" {
				return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownKind, name, hint)
			}
			return nil, fmt.Errorf("%w %q", ErrUnknownKind, name)
		}
		want[name] = true
	}

	kinds := make([]model.SpawnableKind, 0, len(want))
	for _, k := range c.kinds {
		if want[k.Name] {
			kinds = append(kinds, k)
		}
	}
	return New(kinds)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New([]model.SpawnableKind{
		{
			Name:        "tree",
			Archetype:   model.ArchetypeTree,
			BaseSize:    2.8,
			SpawnWeight: 1.2,
			Footprint:   &model.FootprintShape{Shape: "cylinder", Radius: 0.45, HalfHeight: 3.0, OffsetY: 3.0},
		},
		{
			Name:        "bush",
			Archetype:   model.ArchetypeBush,
			BaseSize:    2.0,
			SpawnWeight: 0.7,
		},
		{
			Name:        "mushroom",
			Archetype:   model.ArchetypeMushroom,
			BaseSize:    0.6,
			SpawnWeight: 0.35,
			Ingredient:  &model.IngredientDescriptor{Type: model.IngredientMushroom},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}
