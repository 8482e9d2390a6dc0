package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/mixity/internal/model"
	"github.com/udisondev/mixity/internal/spawn"
)

// ErrPassNotFound is returned when a pass id is unknown.
var ErrPassNotFound = errors.New("placement pass not found")

// PassSummary is one row of placement_passes.
type PassSummary struct {
	ID        uuid.UUID
	Field     string
	Seed      uint64
	Region    string
	Stats     spawn.Stats
	StartedAt time.Time
	Duration  time.Duration
}

// PassRepository stores placement passes in PostgreSQL.
type PassRepository struct {
	pool *pgxpool.Pool
}

// NewPassRepository creates a new pass repository
func NewPassRepository(pool *pgxpool.Pool) *PassRepository {
	return &PassRepository{pool: pool}
}

var placementColumns = []string{
	"pass_id", "seq", "name", "kind_index", "archetype",
	"x", "y", "z", "yaw", "scale", "radius", "is_rare",
	"ingredient_type", "ingredient_name",
}

// SavePass writes the pass header and all of its placements in one transaction.
func (r *PassRepository) SavePass(ctx context.Context, pass *spawn.Pass) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for pass %s: %w", pass.ID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "pass", pass.ID, "error", err)
		}
	}()

	st := pass.Stats
	_, err = tx.Exec(ctx, `
		INSERT INTO placement_passes (pass_id, field, seed, region, attempts, placed, rare,
			no_selection, rejected_exclusion, rejected_overlap, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		pass.ID.String(), pass.Field, int64(pass.Seed), pass.Region,
		st.Attempts, st.Placed, st.Rare, st.NoSelection, st.RejectedExclusion, st.RejectedOverlap,
		pass.StartedAt, pass.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting pass %s: %w", pass.ID, err)
	}

	if len(pass.Results) > 0 {
		rows := make([][]any, 0, len(pass.Results))
		for _, res := range pass.Results {
			var ingType, ingName *string
			if res.Ingredient != nil {
				t, n := string(res.Ingredient.Type), res.Ingredient.Name
				ingType, ingName = &t, &n
			}
			rows = append(rows, []any{
				pass.ID.String(), int32(res.Seq), res.Name, int32(res.KindIndex), string(res.Archetype),
				res.Position.X, res.Position.Y, res.Position.Z,
				res.Yaw, res.Scale, res.Radius, res.Rare,
				ingType, ingName,
			})
		}

		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"placements"},
			placementColumns,
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("inserting placements for pass %s: %w", pass.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction for pass %s: %w", pass.ID, err)
	}

	slog.Debug("placement pass saved",
		"pass", pass.ID,
		"field", pass.Field,
		"placements", len(pass.Results))

	return nil
}

// LoadPass loads a pass with its placements ordered by attempt.
// Kind and Footprint of loaded results are nil: the catalog is not stored.
func (r *PassRepository) LoadPass(ctx context.Context, id uuid.UUID) (*spawn.Pass, error) {
	var (
		seed       int64
		durationMS int64
		st         spawn.Stats
		pass       = &spawn.Pass{ID: id}
	)
	err := r.pool.QueryRow(ctx, `
		SELECT field, seed, region, attempts, placed, rare,
			no_selection, rejected_exclusion, rejected_overlap, started_at, duration_ms
		FROM placement_passes WHERE pass_id = $1`, id.String(),
	).Scan(&pass.Field, &seed, &pass.Region, &st.Attempts, &st.Placed, &st.Rare,
		&st.NoSelection, &st.RejectedExclusion, &st.RejectedOverlap, &pass.StartedAt, &durationMS)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("loading pass %s: %w", id, ErrPassNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading pass %s: %w", id, err)
	}
	pass.Seed = uint64(seed)
	pass.Stats = st
	pass.Duration = time.Duration(durationMS) * time.Millisecond

	rows, err := r.pool.Query(ctx, `
		SELECT seq, name, kind_index, archetype, x, y, z, yaw, scale, radius, is_rare,
			ingredient_type, ingredient_name
		FROM placements WHERE pass_id = $1
		ORDER BY seq`, id.String())
	if err != nil {
		return nil, fmt.Errorf("loading placements for pass %s: %w", id, err)
	}
	defer rows.Close()

	pass.Results = make([]model.PlacementResult, 0, st.Placed)
	for rows.Next() {
		var (
			res              model.PlacementResult
			archetype        string
			ingType, ingName *string
		)
		if err := rows.Scan(&res.Seq, &res.Name, &res.KindIndex, &archetype,
			&res.Position.X, &res.Position.Y, &res.Position.Z,
			&res.Yaw, &res.Scale, &res.Radius, &res.Rare,
			&ingType, &ingName); err != nil {
			return nil, fmt.Errorf("scanning placement row: %w", err)
		}
		res.Archetype = model.Archetype(archetype)
		if ingType != nil && ingName != nil {
			res.Ingredient = &model.IngredientInstance{
				Type: model.IngredientType(*ingType),
				Name: *ingName,
				Rare: res.Rare,
			}
		}
		pass.Results = append(pass.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating placement rows: %w", err)
	}

	return pass, nil
}

// ListPasses returns pass summaries for field, newest first.
// An empty field lists every pass.
func (r *PassRepository) ListPasses(ctx context.Context, field string) ([]PassSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pass_id::text, field, seed, region, attempts, placed, rare,
			no_selection, rejected_exclusion, rejected_overlap, started_at, duration_ms
		FROM placement_passes
		WHERE $1 = '' OR field = $1
		ORDER BY started_at DESC`, field)
	if err != nil {
		return nil, fmt.Errorf("listing passes: %w", err)
	}
	defer rows.Close()

	var out []PassSummary
	for rows.Next() {
		var (
			s          PassSummary
			id         string
			seed       int64
			durationMS int64
		)
		if err := rows.Scan(&id, &s.Field, &seed, &s.Region,
			&s.Stats.Attempts, &s.Stats.Placed, &s.Stats.Rare, &s.Stats.NoSelection,
			&s.Stats.RejectedExclusion, &s.Stats.RejectedOverlap,
			&s.StartedAt, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning pass row: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing pass id %q: %w", id, err)
		}
		s.Seed = uint64(seed)
		s.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pass rows: %w", err)
	}
	return out, nil
}

// DeletePass removes a pass and its placements.
func (r *PassRepository) DeletePass(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM placement_passes WHERE pass_id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("deleting pass %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting pass %s: %w", id, ErrPassNotFound)
	}
	return nil
}
