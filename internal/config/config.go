// Package config loads the application settings file. Launch profiles are a
// separate, JSON-persisted store; this file only carries tunables for the
// daemon, the bridge and the locator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the effective application configuration.
type Config struct {
	// BridgeAddr is the loopback address the WebSocket control bridge
	// listens on.
	BridgeAddr string `yaml:"bridge_addr"`

	// WatchIntervalSeconds is the persistent-monitor enforcement period.
	WatchIntervalSeconds int `yaml:"watch_interval_seconds"`

	// PIDTimeoutSeconds bounds the wait for a window owned by the spawned
	// process itself.
	PIDTimeoutSeconds int `yaml:"pid_timeout_seconds"`

	// NameTimeoutSeconds bounds the wait for a window owned by a named
	// sibling process; launchers can take much longer to hand off.
	NameTimeoutSeconds int `yaml:"name_timeout_seconds"`

	// LogFile, when set, routes daemon logs to a rotated file instead of
	// stderr.
	LogFile      string `yaml:"log_file"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`
	LogMaxFiles  int    `yaml:"log_max_files"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		BridgeAddr:           "127.0.0.1:12345",
		WatchIntervalSeconds: 3,
		PIDTimeoutSeconds:    15,
		NameTimeoutSeconds:   30,
		LogMaxSizeMB:         10,
		LogMaxFiles:          3,
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.BridgeAddr == "" {
		return fmt.Errorf("bridge_addr must not be empty")
	}
	if c.WatchIntervalSeconds <= 0 {
		return fmt.Errorf("watch_interval_seconds must be positive, got %d", c.WatchIntervalSeconds)
	}
	if c.PIDTimeoutSeconds <= 0 || c.NameTimeoutSeconds <= 0 {
		return fmt.Errorf("locator timeouts must be positive")
	}
	return nil
}

// WatchInterval returns the enforcement period as a duration.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.WatchIntervalSeconds) * time.Second
}

// PIDTimeout returns the by-pid locate timeout as a duration.
func (c *Config) PIDTimeout() time.Duration {
	return time.Duration(c.PIDTimeoutSeconds) * time.Second
}

// NameTimeout returns the by-name locate timeout as a duration.
func (c *Config) NameTimeout() time.Duration {
	return time.Duration(c.NameTimeoutSeconds) * time.Second
}

// DefaultConfigPath returns the standard settings location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "displaywarp", "config.yaml"), nil
}

// Load reads the settings from the standard location.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads settings from path. A missing file yields the
// defaults; present keys override them.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
