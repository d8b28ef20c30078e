// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/zasdict/internal/domain/collation"
	"github.com/ersonp/zasdict/internal/domain/entities"
)

const (
	// DefaultConfigDir is the directory name for zasdict configuration.
	DefaultConfigDir = ".zasdict"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultJournalFile is the default journal database file name.
	DefaultJournalFile = "journal.db"
	// DefaultDictionaryFile is the default dictionary document name.
	DefaultDictionaryFile = "dictionary.json"
)

// Environment variables that override the config file.
const (
	EnvDictionary = "ZASDICT_DICTIONARY"
	EnvLogLevel   = "ZASDICT_LOG_LEVEL"
	EnvLogFormat  = "ZASDICT_LOG_FORMAT"
)

// Config holds the static configuration (read-only after init).
type Config struct {
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Search     SearchConfig     `yaml:"search"`
	Collation  CollationConfig  `yaml:"collation"`
	Journal    JournalConfig    `yaml:"journal"`
	Log        LogConfig        `yaml:"log"`
}

// DictionaryConfig holds the location of the dictionary document.
type DictionaryConfig struct {
	// Path is the OTM-JSON document. Relative paths are resolved against
	// the directory holding .zasdict.
	Path string `yaml:"path"`
	// AutoSave saves the document after every committed change.
	AutoSave bool `yaml:"auto_save"`
}

// SearchConfig holds the default search options.
type SearchConfig struct {
	Mode  string `yaml:"mode"`
	Scope string `yaml:"scope"`
}

// CollationConfig holds the headword order.
type CollationConfig struct {
	Alphabet string `yaml:"alphabet"`
}

// JournalConfig holds configuration for the change journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			Path:     DefaultDictionaryFile,
			AutoSave: true,
		},
		Search: SearchConfig{
			Mode:  string(entities.ModePartial),
			Scope: string(entities.ScopeHeadword),
		},
		Collation: CollationConfig{
			Alphabet: collation.DefaultAlphabet,
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(DefaultConfigDir, DefaultJournalFile),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads configuration from the .zasdict directory in the given path.
// A missing config file yields the defaults.
func Load(basePath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ConfigFilePath(basePath))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvDictionary); v != "" {
		c.Dictionary.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}

// Validate checks option values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dictionary.Path) == "" {
		return fmt.Errorf("dictionary.path is empty")
	}
	if _, err := entities.ParseSearchMode(c.Search.Mode); err != nil {
		return fmt.Errorf("search.mode: %w", err)
	}
	if _, err := entities.ParseSearchScope(c.Search.Scope); err != nil {
		return fmt.Errorf("search.scope: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: invalid level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: invalid format %q (valid: text, json)", c.Log.Format)
	}
	return nil
}

// DictionaryPath returns the dictionary document path resolved against
// basePath.
func (c *Config) DictionaryPath(basePath string) string {
	return resolve(basePath, c.Dictionary.Path)
}

// JournalPath returns the journal database path resolved against basePath.
func (c *Config) JournalPath(basePath string) string {
	path := c.Journal.Path
	if path == "" {
		path = filepath.Join(DefaultConfigDir, DefaultJournalFile)
	}
	return resolve(basePath, path)
}

func resolve(basePath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}

// ConfigDir returns the path to the .zasdict config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}
