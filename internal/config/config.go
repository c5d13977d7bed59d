// Package config handles application configuration
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config.sample.yaml
var sampleConfig string

// GetSampleConfig returns the embedded sample configuration content
func GetSampleConfig() string {
	return sampleConfig
}

const (
	// DefaultTitle is the window title prefix.
	DefaultTitle = "TodoTxt"
	// DefaultDebounceMs is the watcher quiet period in milliseconds.
	DefaultDebounceMs = 300
)

// WatchConfig holds external modification detection settings
type WatchConfig struct {
	Enabled    *bool `yaml:"enabled"`     // default: true
	DebounceMs int   `yaml:"debounce_ms"` // 0 uses DefaultDebounceMs
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Verbose bool   `yaml:"verbose"`
	File    string `yaml:"file"`
}

// Config represents the application configuration
type Config struct {
	TodoFile     string        `yaml:"todo_file"`
	SettingsPath string        `yaml:"settings_path"`
	Title        string        `yaml:"title"`
	Watch        WatchConfig   `yaml:"watch"`
	Logging      LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	enabled := true
	return &Config{
		Title: DefaultTitle,
		Watch: WatchConfig{
			Enabled:    &enabled,
			DebounceMs: DefaultDebounceMs,
		},
	}
}

// Load loads configuration from the specified path, or the default XDG path if empty.
// If the config file doesn't exist, it creates one from the sample.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = filepath.Join(GetConfigDir(), "config.yaml")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML and applies defaults for unset fields.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in config file: %w", err)
	}

	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = DefaultDebounceMs
	}
	cfg.TodoFile = ExpandPath(cfg.TodoFile)
	cfg.SettingsPath = ExpandPath(cfg.SettingsPath)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)

	return cfg, nil
}

// save writes the embedded sample configuration to path
func (c *Config) save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title must not be empty")
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMs)
	}
	return nil
}

// GetTodoFile returns the configured default todo file, or "".
func (c *Config) GetTodoFile() string {
	return c.TodoFile
}

// GetSettingsPath returns the settings database path
func (c *Config) GetSettingsPath() string {
	if c.SettingsPath != "" {
		return c.SettingsPath
	}
	return filepath.Join(GetDataDir(), "settings.db")
}

// GetTitle returns the window title prefix
func (c *Config) GetTitle() string {
	if c.Title == "" {
		return DefaultTitle
	}
	return c.Title
}

// IsWatchEnabled returns whether external modification detection is on (default: true)
func (c *Config) IsWatchEnabled() bool {
	if c.Watch.Enabled == nil {
		return true
	}
	return *c.Watch.Enabled
}

// GetWatchDebounce returns the watcher quiet period
func (c *Config) GetWatchDebounce() time.Duration {
	ms := c.Watch.DebounceMs
	if ms <= 0 {
		ms = DefaultDebounceMs
	}
	return time.Duration(ms) * time.Millisecond
}

// IsVerbose returns whether debug logging is on
func (c *Config) IsVerbose() bool {
	return c.Logging.Verbose
}

// GetLogFile returns the log file used while the terminal UI runs
func (c *Config) GetLogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(GetCacheDir(), "todotxt.log")
}

// getXDGDir returns a directory path following the XDG base directory layout.
// envVar is the XDG environment variable (e.g., "XDG_CONFIG_HOME").
// fallbackPath is the relative path from home (e.g., ".config").
func getXDGDir(envVar, fallbackPath string) string {
	if xdgDir := os.Getenv(envVar); xdgDir != "" {
		return filepath.Join(xdgDir, "todotxt")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", fallbackPath, "todotxt")
	}
	return filepath.Join(home, fallbackPath, "todotxt")
}

// GetConfigDir returns the configuration directory following the XDG base directory layout
func GetConfigDir() string {
	return getXDGDir("XDG_CONFIG_HOME", ".config")
}

// GetDataDir returns the data directory following the XDG base directory layout
func GetDataDir() string {
	return getXDGDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// GetCacheDir returns the cache directory following the XDG base directory layout
func GetCacheDir() string {
	return getXDGDir("XDG_CACHE_HOME", ".cache")
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
