package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mixity/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}

func TestOpenWriters(t *testing.T) {
	dir := t.TempDir()
	out := config.Outputs{
		SQLitePath: filepath.Join(dir, "index.sqlite"),
		JournalDir: filepath.Join(dir, "journal"),
	}

	writers, closeAll, err := openWriters(context.Background(), out)
	require.NoError(t, err)
	defer closeAll()
	assert.Len(t, writers, 2)

	none, closeNone, err := openWriters(context.Background(), config.Outputs{})
	require.NoError(t, err)
	defer closeNone()
	assert.Empty(t, none)
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "placer.yaml")
	body := `
log_level: warn
fields:
  - name: clearing
    seed: 42
    region: {shape: disk, radius: 50}
    attempts: 500
    exclusion_radius: 12
outputs:
  sqlite_path: ` + filepath.Join(dir, "index.sqlite") + `
  journal_dir: ` + filepath.Join(dir, "journal") + `
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	t.Setenv("MIXITY_CONFIG", cfgPath)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, run(context.Background()))

	entries, err := os.ReadDir(filepath.Join(dir, "journal"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "clearing-")
}
