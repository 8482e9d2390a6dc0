package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placer holds all configuration for the placement tool.
type Placer struct {
	LogLevel string `yaml:"log_level"`

	// CatalogPath points to a YAML catalog. Empty means the built-in catalog.
	CatalogPath string `yaml:"catalog_path"`

	// Fields are independent placement jobs, run concurrently.
	Fields []Field `yaml:"fields"`

	Outputs Outputs `yaml:"outputs"`
}

// Outputs selects where finished passes are written.
type Outputs struct {
	Database   DatabaseConfig `yaml:"database"`
	SQLitePath string         `yaml:"sqlite_path"` // empty disables the SQLite index
	JournalDir string         `yaml:"journal_dir"` // empty disables the zstd journal
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultPlacer returns Placer config with sensible defaults.
func DefaultPlacer() Placer {
	return Placer{
		LogLevel: "info",
		Fields:   []Field{DefaultField()},
		Outputs: Outputs{
			Database: DatabaseConfig{
				Enabled:  false,
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "mixity",
				Password: "mixity",
				DBName:   "mixity",
				SSLMode:  "disable",
			},
		},
	}
}

// LoadPlacer loads placer config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadPlacer(path string) (Placer, error) {
	cfg := DefaultPlacer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Normalize fills unset per-field values from DefaultField.
func (p *Placer) Normalize() {
	for i := range p.Fields {
		p.Fields[i].normalize()
	}
}

// Validate checks structural problems that don't depend on the catalog.
func (p Placer) Validate() error {
	if len(p.Fields) == 0 {
		return fmt.Errorf("no fields configured")
	}
	seen := make(map[string]bool, len(p.Fields))
	for i, f := range p.Fields {
		if f.Name == "" {
			return fmt.Errorf("field %d: empty name", i)
		}
		// имя поля становится частью имени файла журнала
		if strings.ContainsAny(f.Name, `/\`+"\x00") || f.Name == "." || f.Name == ".." {
			return fmt.Errorf("field %q: name must not contain path separators", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q: duplicate name", f.Name)
		}
		seen[f.Name] = true
		if f.Seed != nil && f.SeedPhrase != "" {
			return fmt.Errorf("field %q: seed and seed_phrase are mutually exclusive", f.Name)
		}
		if f.Seed == nil && f.SeedPhrase == "" {
			return fmt.Errorf("field %q: seed or seed_phrase required", f.Name)
		}
	}
	return nil
}
