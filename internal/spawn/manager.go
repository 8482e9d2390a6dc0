package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/mixity/internal/catalog"
	"github.com/udisondev/mixity/internal/ingredient"
	"github.com/udisondev/mixity/internal/model"
	"github.com/udisondev/mixity/internal/world"
)

// Field is a named placement job: one region, one budget, one seed.
type Field struct {
	Name   string
	Seed   uint64
	Config Config
	Index  world.IndexConfig
	Kinds  []string // catalog subset, empty means every kind
}

// Pass is the outcome of running one field.
type Pass struct {
	ID        uuid.UUID
	Field     string
	Seed      uint64
	Region    string // human-readable region description
	Results   []model.PlacementResult
	Stats     Stats
	StartedAt time.Time
	Duration  time.Duration
}

// PassWriter persists finished passes.
type PassWriter interface {
	SavePass(ctx context.Context, pass *Pass) error
}

// Manager runs placement fields against one catalog.
type Manager struct {
	catalog     *catalog.Catalog
	ingredients *ingredient.Generator
	writers     []PassWriter
}

// NewManager creates new placement manager
func NewManager(cat *catalog.Catalog, ingredients *ingredient.Generator, writers ...PassWriter) *Manager {
	if ingredients == nil {
		ingredients = ingredient.NewGenerator()
	}
	return &Manager{
		catalog:     cat,
		ingredients: ingredients,
		writers:     writers,
	}
}

// Catalog returns the catalog fields are placed from.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// RunField runs one placement pass for f.
// The pass itself is synchronous and is not interrupted by ctx; ctx is only
// checked before the pass starts.
func (m *Manager) RunField(ctx context.Context, f Field) (*Pass, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("running field %q: %w", f.Name, err)
	}

	cat, err := m.catalog.Subset(f.Kinds)
	if err != nil {
		return nil, fmt.Errorf("selecting kinds for field %q: %w", f.Name, err)
	}

	logger := slog.Default().With("field", f.Name)
	placer, err := NewPlacer(cat, f.Config,
		WithIndex(world.NewIndex(f.Index, f.Config.Attempts/4)),
		WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("creating placer for field %q: %w", f.Name, err)
	}

	started := time.Now()
	collector := NewCollector(f.Config.Attempts / 4)
	stats := placer.Run(NewRand(f.Seed, StreamPlacement), collector)

	m.ingredients.Decorate(collector.Results, NewRand(f.Seed, StreamIngredient))

	pass := &Pass{
		ID:        uuid.New(),
		Field:     f.Name,
		Seed:      f.Seed,
		Region:    fmt.Sprint(f.Config.Region),
		Results:   collector.Results,
		Stats:     stats,
		StartedAt: started,
		Duration:  time.Since(started),
	}

	logger.Info("placement pass finished",
		"pass", pass.ID,
		"seed", f.Seed,
		"region", pass.Region,
		"attempts", stats.Attempts,
		"placed", stats.Placed,
		"rare", stats.Rare,
		"density", stats.Density(f.Config.Region.Area()),
		"duration", pass.Duration)

	return pass, nil
}

// RunAll runs independent fields concurrently. Each field gets its own
// placer, index and random stream; passes are returned in field order.
func (m *Manager) RunAll(ctx context.Context, fields []Field) ([]*Pass, error) {
	passes := make([]*Pass, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range fields {
		g.Go(func() error {
			pass, err := m.RunField(gctx, f)
			if err != nil {
				return err
			}
			passes[i] = pass
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return passes, nil
}

// Publish writes pass to every configured writer.
// All writers are attempted; the first error is returned.
func (m *Manager) Publish(ctx context.Context, pass *Pass) error {
	var firstErr error
	for _, w := range m.writers {
		if err := w.SavePass(ctx, pass); err != nil {
			slog.Error("failed to save pass",
				"pass", pass.ID,
				"field", pass.Field,
				"writer", fmt.Sprintf("%T", w),
				"error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return fmt.Errorf("publishing pass %s: %w", pass.ID, firstErr)
	}
	return nil
}
