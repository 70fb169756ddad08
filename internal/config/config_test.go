package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/greenr/internal/config"
	"github.com/rshade/greenr/internal/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, config.ConfigFileName), []byte(content), 0o600))
	return home
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.New(), cfg)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	home := writeConfig(t, `
api:
  base_url: https://api.example.test
  timeout: 5s
storage:
  backend: sqlite
output:
  default_format: json
  precision: 1
unknown_section:
  ignored: true
`)

	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, 1, cfg.Output.Precision)
	assert.Equal(t, "info", cfg.Logging.Level, "absent sections keep defaults")
}

func TestLoad_PartialSectionKeepsDefaults(t *testing.T) {
	home := writeConfig(t, "api:\n  base_url: http://calc.local\n")

	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.Equal(t, "http://calc.local", cfg.API.BaseURL)
	assert.Equal(t, config.New().API.Timeout, cfg.API.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := writeConfig(t, "storage:\n  backend: sqlite\nlogging:\n  level: warn\n")
	t.Setenv("GREENR_STORAGE_BACKEND", "memory")
	t.Setenv("GREENR_LOG_LEVEL", "debug")
	t.Setenv("GREENR_API_BASE_URL", "http://env.local")

	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://env.local", cfg.API.BaseURL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	home := writeConfig(t, "api: [unclosed\n")
	_, err := config.Load(home)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing overlay YAML")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{name: "text is accepted", mutate: func(c *config.Config) { c.Output.DefaultFormat = "text" }},
		{
			name:    "unknown backend",
			mutate:  func(c *config.Config) { c.Storage.Backend = "redis" },
			wantErr: `storage.backend "redis"`,
		},
		{
			name:    "unknown log format",
			mutate:  func(c *config.Config) { c.Logging.Format = "xml" },
			wantErr: `logging.format "xml"`,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "loud" },
			wantErr: `logging.level "loud"`,
		},
		{
			name:    "unknown output format",
			mutate:  func(c *config.Config) { c.Output.DefaultFormat = "csv" },
			wantErr: `output format "csv"`,
		},
		{
			name:    "precision out of range",
			mutate:  func(c *config.Config) { c.Output.Precision = 9 },
			wantErr: "output.precision",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *config.Config) { c.API.Timeout = -time.Second },
			wantErr: "api.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	got, err := config.ParseOutputFormat(" TEXT ")
	require.NoError(t, err)
	assert.Equal(t, config.FormatTable, got)

	got, err = config.ParseOutputFormat("json")
	require.NoError(t, err)
	assert.Equal(t, config.FormatJSON, got)

	_, err = config.ParseOutputFormat("yaml")
	require.Error(t, err)
}

func TestSave_RoundTrips(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested")
	cfg := config.New()
	cfg.Storage.Backend = "sqlite"
	cfg.API.Timeout = 30 * time.Second

	path, err := cfg.Save(home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, config.ConfigFileName), path)

	loaded, err := config.Load(home)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestStoreOptions(t *testing.T) {
	cfg := config.New()
	cfg.Storage.Path = "/tmp/x.json"
	opts := cfg.StoreOptions("/home/u/.greenr")
	assert.Equal(t, "file", opts.Backend)
	assert.Equal(t, "/tmp/x.json", opts.Path)
	assert.Equal(t, "/home/u/.greenr", opts.Home)
}

func TestToLoggingConfig(t *testing.T) {
	tests := []struct {
		name       string
		in         config.LoggingConfig
		wantOutput string
	}{
		{name: "stderr without file", in: config.LoggingConfig{Level: "info", Format: "json"}, wantOutput: logging.OutputStderr},
		{name: "file when set", in: config.LoggingConfig{Level: "debug", File: "/tmp/g.log"}, wantOutput: logging.OutputFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ToLoggingConfig()
			assert.Equal(t, tt.wantOutput, got.Output)
			assert.Equal(t, tt.in.Level, got.Level)
			assert.Equal(t, tt.in.File, got.File)
		})
	}
}

func TestGlobalConfig(t *testing.T) {
	t.Setenv(config.HomeEnvVar, writeConfig(t, "output:\n  default_format: json\n  precision: 2\n"))
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cfg := config.GetGlobalConfig()
	assert.Same(t, cfg, config.GetGlobalConfig())
	assert.Equal(t, "json", config.GetDefaultOutputFormat())
	assert.Equal(t, 2, config.GetOutputPrecision())
	assert.Equal(t, "info", config.GetLoggingConfig().Level)
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv(config.HomeEnvVar, "/custom/greenr")
	dir, err := config.GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/greenr", dir)

	t.Setenv(config.HomeEnvVar, "")
	t.Setenv("HOME", "/home/tester")
	dir, err = config.GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".greenr"), dir)
}

func TestEnsureLogDir(t *testing.T) {
	cfg := config.New()
	require.NoError(t, config.EnsureLogDir(cfg))

	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "greenr.log")
	require.NoError(t, config.EnsureLogDir(cfg))
	_, err := os.Stat(filepath.Dir(cfg.Logging.File))
	require.NoError(t, err)
}

func TestSetGlobalConfig(t *testing.T) {
	t.Cleanup(config.ResetGlobalConfigForTest)

	cfg := config.New()
	cfg.Output.Precision = 3
	config.SetGlobalConfig(cfg)

	assert.Same(t, cfg, config.GetGlobalConfig())
	assert.Equal(t, 3, config.GetOutputPrecision())
}

func TestEnsureConfigDir(t *testing.T) {
	home := filepath.Join(t.TempDir(), "nested", ".greenr")
	require.NoError(t, config.EnsureConfigDir(home))

	info, err := os.Stat(home)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
