package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// HomeEnvVar overrides the greenr home directory.
const HomeEnvVar = "GREENR_HOME"

// GlobalConfig holds the global configuration instance.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects GlobalConfig
var globalConfigInit bool       //nolint:gochecknoglobals // Tracks if global config has been initialized

// InitGlobalConfig loads the global configuration from the greenr home.
// It is a no-op after the first successful call.
func InitGlobalConfig() error {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return nil
	}

	home, err := GetConfigDir()
	if err != nil {
		return err
	}
	cfg, err := Load(home)
	if err != nil {
		return err
	}
	GlobalConfig = cfg
	globalConfigInit = true
	return nil
}

// SetGlobalConfig installs cfg as the global configuration. The CLI calls it
// once flag overrides have been applied.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = cfg
	globalConfigInit = cfg != nil
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}

// GetGlobalConfig returns the global configuration. If it cannot be loaded
// the defaults are returned.
func GetGlobalConfig() *Config {
	if err := InitGlobalConfig(); err != nil {
		return New()
	}
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return GlobalConfig
}

// GetDefaultOutputFormat returns the configured default output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetOutputPrecision returns the configured output precision.
func GetOutputPrecision() int {
	return GetGlobalConfig().Output.Precision
}

// EnsureConfigDir ensures the greenr home directory exists.
func EnsureConfigDir(home string) error {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory %q: %w", home, err)
	}
	return nil
}

// EnsureLogDir ensures the directory of the configured log file exists.
// It does nothing when no log file is configured.
func EnsureLogDir(cfg *Config) error {
	if cfg.Logging.File == "" {
		return nil
	}
	logDir := filepath.Dir(cfg.Logging.File)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}

// GetConfigDir returns the greenr home: $GREENR_HOME, else ~/.greenr.
func GetConfigDir() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".greenr"), nil
}
