// Package config loads wordlist settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wordlist/internal/store"
)

// DefaultFile is the config file looked up in the working directory when no
// path is given.
const DefaultFile = "wordlist.yaml"

const defaultDatabase = "wordlist.db"

// ValidLogLevels defines the allowed log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds settings for opening the word store.
type Config struct {
	// Database is the SQLite file path.
	Database string `yaml:"database"`

	// SchemaVersion is the declared schema version. A change drops all data.
	SchemaVersion int `yaml:"schema_version"`

	// LogLevel is one of ValidLogLevels.
	LogLevel string `yaml:"log_level"`

	// Seed replaces the default seed list when set.
	Seed []string `yaml:"seed,omitempty"`
}

// Default returns a Config with the built-in defaults.
func Default() Config {
	return Config{
		Database:      defaultDatabase,
		SchemaVersion: store.DefaultVersion,
		LogLevel:      "info",
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Database != "" {
		c.Database = source.Database
	}
	if source.SchemaVersion != 0 {
		c.SchemaVersion = source.SchemaVersion
	}
	if source.LogLevel != "" {
		c.LogLevel = source.LogLevel
	}
	if source.Seed != nil {
		c.Seed = source.Seed
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("database is required")
	}
	if c.SchemaVersion < 1 {
		return fmt.Errorf("schema_version must be >= 1, got %d", c.SchemaVersion)
	}
	if !slices.Contains(ValidLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q: must be one of %v", c.LogLevel, ValidLogLevels)
	}
	return nil
}

// SlogLevel maps LogLevel to the slog level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StoreOptions returns the store options this config implies.
func (c *Config) StoreOptions() []store.Option {
	opts := []store.Option{store.WithVersion(c.SchemaVersion)}
	if c.Seed != nil {
		opts = append(opts, store.WithSeed(c.Seed))
	}
	return opts
}

// Load reads the YAML file at path, merges it over the defaults and validates
// the result. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&loaded); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	cfg.Merge(&loaded)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Resolve loads path when given; otherwise it loads DefaultFile from the
// working directory if present and falls back to Default.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}
	cfg := Default()
	return &cfg, nil
}
