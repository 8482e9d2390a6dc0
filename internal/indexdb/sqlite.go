// Package indexdb keeps a local SQLite index of placement passes.
package indexdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/udisondev/mixity/internal/model"
	"github.com/udisondev/mixity/internal/spawn"
)

// ErrPassNotFound is returned when a pass id is not in the index.
var ErrPassNotFound = errors.New("pass not indexed")

// SQLiteIndex stores passes in a single SQLite file.
type SQLiteIndex struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the index at path.
func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passes (
			pass_id TEXT PRIMARY KEY,
			field TEXT NOT NULL,
			seed TEXT NOT NULL,
			region TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			placed INTEGER NOT NULL,
			rare INTEGER NOT NULL,
			no_selection INTEGER NOT NULL,
			rejected_exclusion INTEGER NOT NULL,
			rejected_overlap INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			duration_ns INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS placements (
			pass_id TEXT NOT NULL REFERENCES passes(pass_id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			kind_index INTEGER NOT NULL,
			archetype TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			yaw REAL NOT NULL,
			scale REAL NOT NULL,
			radius REAL NOT NULL,
			is_rare INTEGER NOT NULL,
			ingredient_type TEXT,
			ingredient_name TEXT,
			PRIMARY KEY (pass_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS placements_archetype ON placements(pass_id, archetype);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteIndex) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SavePass indexes pass and its placements in one transaction.
// The seed is stored as decimal text: SQLite integers are signed 64-bit.
func (s *SQLiteIndex) SavePass(ctx context.Context, pass *spawn.Pass) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	st := pass.Stats
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO passes(pass_id, field, seed, region, attempts, placed, rare,
			no_selection, rejected_exclusion, rejected_overlap, started_at, duration_ns)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pass.ID.String(), pass.Field, fmt.Sprint(pass.Seed), pass.Region,
		st.Attempts, st.Placed, st.Rare, st.NoSelection, st.RejectedExclusion, st.RejectedOverlap,
		pass.StartedAt.UTC().Format(time.RFC3339Nano), int64(pass.Duration),
	); err != nil {
		return fmt.Errorf("indexing pass %s: %w", pass.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO placements(pass_id, seq, name, kind_index, archetype, x, y, z, yaw, scale, radius,
			is_rare, ingredient_type, ingredient_name)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range pass.Results {
		var ingType, ingName sql.NullString
		if r.Ingredient != nil {
			ingType = sql.NullString{String: string(r.Ingredient.Type), Valid: true}
			ingName = sql.NullString{String: r.Ingredient.Name, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			pass.ID.String(), r.Seq, r.Name, r.KindIndex, string(r.Archetype),
			r.Position.X, r.Position.Y, r.Position.Z, r.Yaw, r.Scale, r.Radius,
			boolToInt(r.Rare), ingType, ingName,
		); err != nil {
			return fmt.Errorf("indexing placement %d of pass %s: %w", r.Seq, pass.ID, err)
		}
	}

	return tx.Commit()
}

// LoadPass reads a pass back from the index.
func (s *SQLiteIndex) LoadPass(ctx context.Context, id uuid.UUID) (*spawn.Pass, error) {
	var (
		seed       string
		startedAt  string
		durationNS int64
		pass       = &spawn.Pass{ID: id}
		st         = &pass.Stats
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT field, seed, region, attempts, placed, rare, no_selection,
			rejected_exclusion, rejected_overlap, started_at, duration_ns
		FROM passes WHERE pass_id = ?`, id.String(),
	).Scan(&pass.Field, &seed, &pass.Region, &st.Attempts, &st.Placed, &st.Rare, &st.NoSelection,
		&st.RejectedExclusion, &st.RejectedOverlap, &startedAt, &durationNS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading pass %s: %w", id, ErrPassNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading pass %s: %w", id, err)
	}
	if _, err := fmt.Sscan(seed, &pass.Seed); err != nil {
		return nil, fmt.Errorf("parsing seed %q: %w", seed, err)
	}
	if pass.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at %q: %w", startedAt, err)
	}
	pass.Duration = time.Duration(durationNS)

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, name, kind_index, archetype, x, y, z, yaw, scale, radius, is_rare,
			ingredient_type, ingredient_name
		FROM placements WHERE pass_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r                model.PlacementResult
			archetype        string
			rare             int
			ingType, ingName sql.NullString
		)
		if err := rows.Scan(&r.Seq, &r.Name, &r.KindIndex, &archetype,
			&r.Position.X, &r.Position.Y, &r.Position.Z, &r.Yaw, &r.Scale, &r.Radius,
			&rare, &ingType, &ingName); err != nil {
			return nil, err
		}
		r.Archetype = model.Archetype(archetype)
		r.Rare = rare != 0
		if ingType.Valid {
			r.Ingredient = &model.IngredientInstance{
				Type: model.IngredientType(ingType.String),
				Name: ingName.String,
				Rare: r.Rare,
			}
		}
		pass.Results = append(pass.Results, r)
	}
	return pass, rows.Err()
}

// CountByArchetype returns how many placements of each archetype a pass holds.
func (s *SQLiteIndex) CountByArchetype(ctx context.Context, id uuid.UUID) (map[model.Archetype]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT archetype, COUNT(*) FROM placements WHERE pass_id = ? GROUP BY archetype`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[model.Archetype]int{}
	for rows.Next() {
		var (
			a string
			n int
		)
		if err := rows.Scan(&a, &n); err != nil {
			return nil, err
		}
		out[model.Archetype(a)] = n
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
