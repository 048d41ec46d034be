package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backends supported for snapshot persistence.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Config holds CLI configuration for taskstore.
type Config struct {
	// DataDir is where snapshots live.
	DataDir string

	// Backend selects the persistence adapter: "file" or "badger".
	Backend string

	// Debounce batches snapshot writes; zero writes on every commit.
	Debounce time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// UseUUIDs mints UUID task ids instead of sequential numbers.
	UseUUIDs bool

	// Watch reloads state when the snapshot file changes externally.
	// File backend only.
	Watch bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		DataDir:  defaultDataDir(),
		Backend:  BackendFile,
		LogLevel: "info",
	}
}

func defaultDataDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".taskstore")
	}
	return ".taskstore"
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data-dir is required")
	}
	if c.Backend != BackendFile && c.Backend != BackendBadger {
		return fmt.Errorf("backend must be %q or %q, got %q", BackendFile, BackendBadger, c.Backend)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if c.Watch && c.Backend != BackendFile {
		return fmt.Errorf("watch requires the file backend")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log-level must be one of debug, info, warn, error")
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
