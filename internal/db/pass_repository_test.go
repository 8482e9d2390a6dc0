package db_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mixity/internal/db"
	"github.com/udisondev/mixity/internal/model"
	"github.com/udisondev/mixity/internal/spawn"
	"github.com/udisondev/mixity/internal/testutil"
)

func samplePass(field string, started time.Time) *spawn.Pass {
	return &spawn.Pass{
		ID:     uuid.New(),
		Field:  field,
		Seed:   1<<63 + 5, // не влезает в int64 без переноса знака
		Region: "disk(50) at (0, 0)",
		Results: []model.PlacementResult{
			{
				Seq: 3, Name: "Tree 3", KindIndex: 0, Archetype: model.ArchetypeTree,
				Position: model.Vec3{X: 14.5, Y: 0, Z: -20.25}, Yaw: 1.5, Scale: 1.1, Radius: 3.08,
			},
			{
				Seq: 11, Name: "Mushroom 11", KindIndex: 2, Archetype: model.ArchetypeMushroom,
				Position: model.Vec3{X: -30, Y: 0, Z: 8}, Yaw: -2, Scale: 1.5, Radius: 0.9, Rare: true,
				Ingredient: &model.IngredientInstance{Type: model.IngredientMushroom, Name: "Ashen Morel", Rare: true},
			},
		},
		Stats:     spawn.Stats{Attempts: 20, Placed: 2, Rare: 1, RejectedExclusion: 5, RejectedOverlap: 13},
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
	}
}

func TestPassRepository_SaveLoad(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	repo := db.NewPassRepository(pool)

	pass := samplePass("meadow", time.Now().UTC().Truncate(time.Millisecond))
	require.NoError(t, repo.SavePass(ctx, pass))

	got, err := repo.LoadPass(ctx, pass.ID)
	require.NoError(t, err)

	assert.Equal(t, pass.Field, got.Field)
	assert.Equal(t, pass.Seed, got.Seed)
	assert.Equal(t, pass.Region, got.Region)
	assert.Equal(t, pass.Stats, got.Stats)
	assert.Equal(t, pass.Duration, got.Duration)
	assert.True(t, pass.StartedAt.Equal(got.StartedAt))

	require.Len(t, got.Results, 2)
	assert.Equal(t, "Tree 3", got.Results[0].Name)
	assert.Equal(t, pass.Results[0].Position, got.Results[0].Position)
	assert.Nil(t, got.Results[0].Ingredient)
	require.NotNil(t, got.Results[1].Ingredient)
	assert.Equal(t, "Ashen Morel", got.Results[1].Ingredient.Name)
	assert.True(t, got.Results[1].Rare)
}

func TestPassRepository_LoadUnknown(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	_, err := db.NewPassRepository(pool).LoadPass(ctx, uuid.New())
	require.ErrorIs(t, err, db.ErrPassNotFound)
}

func TestPassRepository_ListAndDelete(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	repo := db.FromPool(pool).Passes()

	now := time.Now().UTC().Truncate(time.Millisecond)
	older := samplePass("meadow", now.Add(-time.Hour))
	newer := samplePass("meadow", now)
	other := samplePass("glade", now)
	for _, p := range []*spawn.Pass{older, newer, other} {
		require.NoError(t, repo.SavePass(ctx, p))
	}

	meadow, err := repo.ListPasses(ctx, "meadow")
	require.NoError(t, err)
	require.Len(t, meadow, 2)
	assert.Equal(t, newer.ID, meadow[0].ID)
	assert.Equal(t, older.ID, meadow[1].ID)

	all, err := repo.ListPasses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, repo.DeletePass(ctx, older.ID))
	_, err = repo.LoadPass(ctx, older.ID)
	require.ErrorIs(t, err, db.ErrPassNotFound)
	require.ErrorIs(t, repo.DeletePass(ctx, older.ID), db.ErrPassNotFound)
}

func TestPassRepository_EmptyPass(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	repo := db.NewPassRepository(pool)

	pass := samplePass("barren", time.Now().UTC())
	pass.Results = nil
	pass.Stats = spawn.Stats{Attempts: 10, NoSelection: 10}
	require.NoError(t, repo.SavePass(ctx, pass))

	got, err := repo.LoadPass(ctx, pass.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Results)
	assert.Equal(t, 10, got.Stats.NoSelection)
}
