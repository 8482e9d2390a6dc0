package testutil

import (
	"math/rand/v2"
	"testing"

	"github.com/udisondev/mixity/internal/catalog"
	"github.com/udisondev/mixity/internal/model"
)

// Fixtures содержит заранее подготовленные данные для тестов,
// чтобы не дублировать литералы каталогов в каждом пакете.
var Fixtures = struct {
	// Каталог из двух видов: дерево и куст (эталонный сценарий)
	TreeBush []model.SpawnableKind

	// Каталог, в котором ни один вид не может быть выбран
	AllZero []model.SpawnableKind

	// Эталонное зерно для детерминированных прогонов
	Seed uint64
}{
	TreeBush: []model.SpawnableKind{
		{Name: "tree", Archetype: model.ArchetypeTree, BaseSize: 2.8, SpawnWeight: 1.2},
		{Name: "bush", Archetype: model.ArchetypeBush, BaseSize: 2.0, SpawnWeight: 0.7},
	},
	AllZero: []model.SpawnableKind{
		{Name: "tree", Archetype: model.ArchetypeTree, BaseSize: 2.8, SpawnWeight: 0},
		{Name: "bush", Archetype: model.ArchetypeBush, BaseSize: 2.0, SpawnWeight: 0},
	},
	Seed: 42,
}

// MustCatalog строит каталог или валит тест.
func MustCatalog(tb testing.TB, kinds []model.SpawnableKind) *catalog.Catalog {
	tb.Helper()
	c, err := catalog.New(kinds)
	if err != nil {
		tb.Fatalf("building catalog: %v", err)
	}
	return c
}

// SeededRand возвращает PCG-генератор на заданном зерне и потоке.
func SeededRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}
