package spawn

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mixity/internal/catalog"
	"github.com/udisondev/mixity/internal/ingredient"
	"github.com/udisondev/mixity/internal/model"
	"github.com/udisondev/mixity/internal/testutil"
	"github.com/udisondev/mixity/internal/world"
)

// mockPassWriter для тестов
type mockPassWriter struct {
	mu     sync.Mutex
	saved  []uuid.UUID
	failOn error
}

func (w *mockPassWriter) SavePass(ctx context.Context, pass *Pass) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failOn != nil {
		return w.failOn
	}
	w.saved = append(w.saved, pass.ID)
	return nil
}

func testField(name string, seed uint64) Field {
	cfg := scenarioConfig()
	cfg.Attempts = 1500
	return Field{
		Name:   name,
		Seed:   seed,
		Config: cfg,
		Index:  world.IndexConfig{Kind: world.IndexGrid},
	}
}

func TestManager_RunField(t *testing.T) {
	m := NewManager(catalog.Default(), nil)
	f := testField("meadow", 42)

	pass, err := m.RunField(context.Background(), f)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, pass.ID)
	assert.Equal(t, "meadow", pass.Field)
	assert.Equal(t, uint64(42), pass.Seed)
	assert.Equal(t, "disk(50) at (0, 0)", pass.Region)
	assert.Equal(t, pass.Stats.Placed, len(pass.Results))
	assert.False(t, pass.StartedAt.IsZero())

	testutil.AssertNoOverlap(t, pass.Results)
	testutil.AssertOutsideExclusion(t, pass.Results, model.Vec2{}, f.Config.ExclusionRadius)

	for _, r := range pass.Results {
		if r.Archetype == model.ArchetypeMushroom {
			require.NotNil(t, r.Ingredient, r.Name)
			assert.Equal(t, model.IngredientMushroom, r.Ingredient.Type)
			assert.Equal(t, r.Rare, r.Ingredient.Rare)
		} else {
			assert.Nil(t, r.Ingredient, r.Name)
		}
	}
}

func TestManager_RunFieldMatchesPlacer(t *testing.T) {
	cat := catalog.Default()
	f := testField("meadow", 77)

	pass, err := NewManager(cat, ingredient.NewGenerator()).RunField(context.Background(), f)
	require.NoError(t, err)

	direct, _ := runScenario(t, cat, f.Config, 77)
	require.Len(t, pass.Results, len(direct))
	for i := range direct {
		assert.Equal(t, direct[i].Name, pass.Results[i].Name)
		assert.Equal(t, direct[i].Position, pass.Results[i].Position)
	}
}

func TestManager_RunFieldSubset(t *testing.T) {
	m := NewManager(catalog.Default(), nil)

	f := testField("orchard", 3)
	f.Kinds = []string{"tree"}
	pass, err := m.RunField(context.Background(), f)
	require.NoError(t, err)
	require.NotEmpty(t, pass.Results)
	for _, r := range pass.Results {
		assert.Equal(t, model.ArchetypeTree, r.Archetype)
	}

	f.Kinds = []string{"tre"}
	_, err = m.RunField(context.Background(), f)
	require.ErrorIs(t, err, catalog.ErrUnknownKind)
}

func TestManager_RunFieldCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewManager(catalog.Default(), nil).RunField(ctx, testField("meadow", 1))
	require.ErrorIs(t, err, context.Canceled)
}

func TestManager_RunAll(t *testing.T) {
	m := NewManager(catalog.Default(), nil)
	fields := []Field{
		testField("a", 1),
		testField("b", 2),
		testField("c", 3),
		testField("d", 1),
	}

	passes, err := m.RunAll(context.Background(), fields)
	require.NoError(t, err)
	require.Len(t, passes, len(fields))

	for i, p := range passes {
		assert.Equal(t, fields[i].Name, p.Field)
	}
	// одинаковое зерно даёт одинаковую расстановку независимо от параллельности
	assert.Equal(t, passes[0].Results, passes[3].Results)
	assert.NotEqual(t, passes[0].Results, passes[1].Results)
}

func TestManager_RunAllError(t *testing.T) {
	m := NewManager(catalog.Default(), nil)
	bad := testField("bad", 2)
	bad.Kinds = []string{"cactus"}

	_, err := m.RunAll(context.Background(), []Field{testField("ok", 1), bad})
	require.ErrorIs(t, err, catalog.ErrUnknownKind)
}

func TestManager_Publish(t *testing.T) {
	failing := &mockPassWriter{failOn: errors.New("disk full")}
	first := &mockPassWriter{}
	last := &mockPassWriter{}

	m := NewManager(catalog.Default(), nil, first, failing, last)
	pass := &Pass{ID: uuid.New(), Field: "meadow"}

	err := m.Publish(context.Background(), pass)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	// остальные writers всё равно получили пасс
	assert.Equal(t, []uuid.UUID{pass.ID}, first.saved)
	assert.Equal(t, []uuid.UUID{pass.ID}, last.saved)
}

func TestManager_PublishNoWriters(t *testing.T) {
	m := NewManager(catalog.Default(), nil)
	require.NoError(t, m.Publish(context.Background(), &Pass{ID: uuid.New()}))
}
