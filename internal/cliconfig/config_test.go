package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Backend != BackendFile {
		t.Fatalf("expected file backend by default, got %q", cfg.Backend)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"unknown backend", func(c *Config) { c.Backend = "postgres" }},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"watch with badger", func(c *Config) { c.Backend = BackendBadger; c.Watch = true }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestSetterRespectsChangedFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "from-flag"

	s := newConfigSetter(map[string]bool{"backend": true})
	s.setString("backend", "from-file", &cfg.Backend)

	if cfg.Backend != "from-flag" {
		t.Fatalf("explicit flags must win, got %q", cfg.Backend)
	}
}
