// Package ingredient rolls pickup ingredients for placed vegetation.
package ingredient

import (
	"github.com/udisondev/mixity/internal/model"
)

// Rand is the random source names are drawn from.
type Rand interface {
	IntN(n int) int
}

// nameTable composes an ingredient name from two word lists.
// Sep joins the parts; an empty Sep glues them ("Crow" + "berry").
type nameTable struct {
	First  []string
	Second []string
	Sep    string
}

func (t nameTable) roll(r Rand) string {
	first := t.First[r.IntN(len(t.First))]
	second := t.Second[r.IntN(len(t.Second))]
	return first + t.Sep + second
}

var defaultTables = map[model.IngredientType]nameTable{
	model.IngredientMushroom: {
		First:  []string{"Grey", "Hollow", "Witchcap", "Ashen", "Marsh", "Velvet", "Lantern"},
		Second: []string{"Stool", "Morel", "Puffball", "Gill", "Bonnet"},
		Sep:    " ",
	},
	model.IngredientBerry: {
		First:  []string{"Crow", "Bitter", "Dusk", "Thorn", "Frost", "Bramble", "Gloam", "Hare", "Ember"},
		Second: []string{"berry"},
	},
	model.IngredientPlant: {
		First:  []string{"Owl", "Stag", "Adder", "Heron", "Boar", "Lynx", "Moth", "Toad"},
		Second: []string{"leaf", "wort", "bane", "thistle", "fern", "sorrel", "mallow", "clover"},
		Sep:    " ",
	},
	model.IngredientRoot: {
		First:  []string{"Knot", "Iron", "Wild ", "Crooked ", "Pale ", "Mandra", "Sweet ", "Deep "},
		Second: []string{"root"},
	},
}

// Generator rolls ingredient instances from per-type name tables.
type Generator struct {
	tables map[model.IngredientType]nameTable
}

// NewGenerator creates generator with built-in name tables.
func NewGenerator() *Generator {
	return &Generator{tables: defaultTables}
}

// Roll creates an ingredient of type typ.
// Unknown types get the type itself as a name.
func (g *Generator) Roll(r Rand, typ model.IngredientType, rare bool) model.IngredientInstance {
	inst := model.IngredientInstance{Type: typ, Rare: rare}
	t, ok := g.tables[typ]
	if !ok {
		inst.Name = string(typ)
		return inst
	}
	inst.Name = t.roll(r)
	return inst
}

// Decorate fills Ingredient for every result whose kind carries an
// ingredient descriptor. Results are visited in order, so the same
// random stream yields the same names.
func (g *Generator) Decorate(results []model.PlacementResult, r Rand) int {
	n := 0
	for i := range results {
		res := &results[i]
		if res.Kind == nil || res.Kind.Ingredient == nil {
			continue
		}
		inst := g.Roll(r, res.Kind.Ingredient.Type, res.Rare)
		res.Ingredient = &inst
		n++
	}
	return n
}
