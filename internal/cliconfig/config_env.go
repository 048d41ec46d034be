package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (TASKSTORE_*). It respects flags that have been explicitly set (changed
// map). Returns an error if a variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("data-dir", os.Getenv("TASKSTORE_DATA_DIR"), &cfg.DataDir)
	s.setString("backend", os.Getenv("TASKSTORE_BACKEND"), &cfg.Backend)
	s.setString("log-level", os.Getenv("TASKSTORE_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("debounce", os.Getenv("TASKSTORE_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	s.setBoolFromString("uuids", os.Getenv("TASKSTORE_USE_UUIDS"), &cfg.UseUUIDs)
	s.setBoolFromString("watch", os.Getenv("TASKSTORE_WATCH"), &cfg.Watch)

	return nil
}
