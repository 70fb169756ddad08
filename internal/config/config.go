// Package config loads greenr settings from ~/.greenr/config.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/greenr/internal/calculator"
	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session/store"
)

// ConfigFileName is the config file name inside the greenr home.
const ConfigFileName = "config.yaml"

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	// formatText is accepted as an alias of FormatTable.
	formatText = "text"
)

const maxPrecision = 6

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full greenr configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// APIConfig points at the footprint calculation API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"GREENR_API_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"GREENR_API_TIMEOUT"`
}

// StorageConfig selects where the session is persisted.
type StorageConfig struct {
	// Backend is one of file, sqlite or memory.
	Backend string `yaml:"backend" env:"GREENR_STORAGE_BACKEND"`
	// Path overrides the backend's default location under the greenr home.
	Path string `yaml:"path,omitempty" env:"GREENR_STORAGE_PATH"`
}

// LoggingConfig controls diagnostic logging.
type LoggingConfig struct {
	Level  string `yaml:"level"          env:"GREENR_LOG_LEVEL"`
	Format string `yaml:"format"         env:"GREENR_LOG_FORMAT"`
	File   string `yaml:"file,omitempty" env:"GREENR_LOG_FILE"`
}

// OutputConfig controls command output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	// Precision is the number of decimals for kilogram values in tables.
	Precision int `yaml:"precision"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: calculator.DefaultBaseURL,
			Timeout: calculator.DefaultTimeout,
		},
		Storage: StorageConfig{
			Backend: store.BackendFile,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     0,
		},
	}
}

// Load builds the effective configuration: defaults, then the config file
// under home (if present), then environment overrides. The result is
// validated.
func Load(home string) (*Config, error) {
	cfg := New()

	path := filepath.Join(home, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		if err = ShallowMergeYAML(cfg, path); err != nil {
			return nil, err
		}
		cfg.fillDefaults()
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults restores defaults for fields a partial file section left empty.
func (c *Config) fillDefaults() {
	def := New()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = def.API.Timeout
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Output.DefaultFormat == "" {
		c.Output.DefaultFormat = def.Output.DefaultFormat
	}
}

// Validate rejects unknown backends, formats and levels.
func (c *Config) Validate() error {
	var errs []error

	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative, got %s", c.API.Timeout))
	}

	switch strings.ToLower(c.Storage.Backend) {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is not one of file, sqlite, memory", c.Storage.Backend))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level))
	}
	switch c.Logging.Format {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of json, console", c.Logging.Format))
	}

	if _, err := ParseOutputFormat(c.Output.DefaultFormat); err != nil {
		errs = append(errs, err)
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("output.precision must be between 0 and %d, got %d",
			maxPrecision, c.Output.Precision))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ParseOutputFormat normalizes an output format name.
func ParseOutputFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case FormatTable, formatText:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("output format %q is not one of table, text, json", s)
	}
}

// StoreOptions returns the session store options for this configuration.
func (c *Config) StoreOptions(home string) store.Options {
	return store.Options{
		Backend: c.Storage.Backend,
		Path:    c.Storage.Path,
		Home:    home,
	}
}

// Save writes the configuration to home/config.yaml, creating home if needed.
func (c *Config) Save(home string) (string, error) {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", home, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	path := filepath.Join(home, ConfigFileName)
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing config file %s: %w", path, err)
	}
	return path, nil
}

// YAML renders the configuration as it would be saved.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return string(data), nil
}
