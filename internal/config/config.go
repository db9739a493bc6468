// Package config loads user configuration from config.yaml and MICROMIND_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/utils"
)

type Config struct {
	// Storage is a file path, ":memory:", "postgres" (connection string from
	// the environment or keyring) or a PostgreSQL URL without a password.
	Storage       string        `yaml:"storage" mapstructure:"storage"`
	EntryMode     string        `yaml:"entry_mode" mapstructure:"entry_mode"`
	Timezone      string        `yaml:"timezone" mapstructure:"timezone"`
	AutosaveDelay time.Duration `yaml:"autosave_delay" mapstructure:"autosave_delay"`
	Debug         bool          `yaml:"debug" mapstructure:"debug"`
}

func DefaultConfig() *Config {
	return &Config{
		Storage:       constants.DefaultStoragePath,
		EntryMode:     constants.DefaultEntryMode,
		Timezone:      constants.DefaultTimezone,
		AutosaveDelay: constants.DefaultAutosaveDelay,
	}
}

// Load reads the config file at path, or config.yaml in configDir when path
// is empty. A missing file is not an error.
func Load(path, configDir string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault(constants.ConfigStorage, defaults.Storage)
	v.SetDefault(constants.ConfigEntryMode, defaults.EntryMode)
	v.SetDefault(constants.ConfigTimezone, defaults.Timezone)
	v.SetDefault(constants.ConfigAutosaveDelay, defaults.AutosaveDelay)
	v.SetDefault(constants.ConfigDebug, defaults.Debug)

	if path != "" {
		v.SetConfigFile(kong.ExpandPath(path))
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(kong.ExpandPath(configDir))
	}

	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Storage = expandStorage(cfg.Storage)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply layers command-line overrides onto c. Empty values keep the
// configured ones.
func (c *Config) Apply(storage, entryMode string, debug bool) error {
	if storage != "" {
		c.Storage = expandStorage(storage)
	}
	if entryMode != "" {
		c.EntryMode = entryMode
	}
	c.Debug = c.Debug || debug
	return c.Validate()
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.EntryMode {
	case constants.EntryModeID, constants.EntryModeDate:
	default:
		return fmt.Errorf("config: entry_mode must be %q or %q, got %q", constants.EntryModeID, constants.EntryModeDate, c.EntryMode)
	}
	if _, err := utils.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.AutosaveDelay < 0 {
		return fmt.Errorf("config: autosave_delay must not be negative")
	}
	if c.AutosaveDelay == 0 {
		c.AutosaveDelay = constants.DefaultAutosaveDelay
	}
	if strings.TrimSpace(c.Storage) == "" {
		return fmt.Errorf("config: storage is required")
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ConfigDir returns the directory holding the storage file, falling back to
// the default config directory for non-file backends.
func (c *Config) ConfigDir() string {
	if isFilePath(c.Storage) {
		return filepath.Dir(c.Storage)
	}
	return kong.ExpandPath(constants.DefaultConfigDir)
}

func isFilePath(storage string) bool {
	return storage != ":memory:" &&
		storage != constants.PostgresStorage &&
		!strings.Contains(storage, "://")
}

func expandStorage(storage string) string {
	if isFilePath(storage) {
		return kong.ExpandPath(storage)
	}
	return storage
}
