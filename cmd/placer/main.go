package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/mixity/internal/catalog"
	"github.com/udisondev/mixity/internal/config"
	"github.com/udisondev/mixity/internal/db"
	"github.com/udisondev/mixity/internal/indexdb"
	"github.com/udisondev/mixity/internal/ingredient"
	"github.com/udisondev/mixity/internal/journal"
	"github.com/udisondev/mixity/internal/spawn"
)

const PlacerConfigPath = "config/placer.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := PlacerConfigPath
	if p := os.Getenv("MIXITY_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadPlacer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading placer config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("mixity placer starting", "config", cfgPath, "log_level", cfg.LogLevel, "fields", len(cfg.Fields))

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	if cat.Degenerate() {
		slog.Warn("catalog has no selectable kinds", "kinds", cat.Len())
	}

	fields, err := spawn.FieldsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("building fields: %w", err)
	}

	writers, closeWriters, err := openWriters(ctx, cfg.Outputs)
	if err != nil {
		return err
	}
	defer closeWriters()

	manager := spawn.NewManager(cat, ingredient.NewGenerator(), writers...)

	passes, err := manager.RunAll(ctx, fields)
	if err != nil {
		return fmt.Errorf("running fields: %w", err)
	}

	var publishErr error
	for _, pass := range passes {
		if err := manager.Publish(ctx, pass); err != nil && publishErr == nil {
			publishErr = err
		}
		slog.Info("field done",
			"field", pass.Field,
			"pass", pass.ID,
			"placed", pass.Stats.Placed,
			"rare", pass.Stats.Rare,
			"attempts", pass.Stats.Attempts)
	}
	return publishErr
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat := catalog.Default()
		slog.Info("using built-in catalog", "kinds", cat.Names())
		return cat, nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}

// openWriters opens every enabled pass output.
func openWriters(ctx context.Context, out config.Outputs) ([]spawn.PassWriter, func(), error) {
	var (
		writers []spawn.PassWriter
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if out.Database.Enabled {
		dsn := out.Database.DSN()
		database, err := db.New(ctx, dsn)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		closers = append(closers, database.Close)
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, dsn); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")
		writers = append(writers, database.Passes())
	}

	if out.SQLitePath != "" {
		idx, err := indexdb.OpenSQLite(out.SQLitePath)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("opening sqlite index: %w", err)
		}
		closers = append(closers, func() {
			if err := idx.Close(); err != nil {
				slog.Error("closing sqlite index", "error", err)
			}
		})
		writers = append(writers, idx)
	}

	if out.JournalDir != "" {
		writers = append(writers, journal.NewWriter(out.JournalDir))
	}

	if len(writers) == 0 {
		slog.Warn("no outputs configured, passes are only logged")
	}
	return writers, closeAll, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
