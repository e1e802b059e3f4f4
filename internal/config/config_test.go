package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	os.Unsetenv(envZonesDir)
	os.Unsetenv(envBlocklistFile)

	cfg := DefaultConfig()

	if cfg.ListenAddr != "0.0.0.0:4567" {
		t.Errorf("ListenAddr = %q, want 0.0.0.0:4567", cfg.ListenAddr)
	}
	if cfg.RootHint != "198.41.0.4:53" {
		t.Errorf("RootHint = %q, want 198.41.0.4:53", cfg.RootHint)
	}
	if cfg.HopTimeout != 5*time.Second {
		t.Errorf("HopTimeout = %v, want 5s", cfg.HopTimeout)
	}
	if cfg.MaxRecursionDepth != 16 {
		t.Errorf("MaxRecursionDepth = %d, want 16", cfg.MaxRecursionDepth)
	}
	if cfg.ZonesDir != "./zones" {
		t.Errorf("ZonesDir = %q, want ./zones", cfg.ZonesDir)
	}
	if cfg.BlocklistFile != "./blocklist.yml" {
		t.Errorf("BlocklistFile = %q, want ./blocklist.yml", cfg.BlocklistFile)
	}
}

func TestDefaultConfigHonorsEnv(t *testing.T) {
	os.Setenv(envZonesDir, "/tmp/custom-zones")
	os.Setenv(envBlocklistFile, "/tmp/custom-blocklist.yml")
	defer os.Unsetenv(envZonesDir)
	defer os.Unsetenv(envBlocklistFile)

	cfg := DefaultConfig()
	if cfg.ZonesDir != "/tmp/custom-zones" {
		t.Errorf("ZonesDir = %q, want /tmp/custom-zones", cfg.ZonesDir)
	}
	if cfg.BlocklistFile != "/tmp/custom-blocklist.yml" {
		t.Errorf("BlocklistFile = %q, want /tmp/custom-blocklist.yml", cfg.BlocklistFile)
	}
}

func TestConfigValidation(t *testing.T) {
	base := func() *Config {
		c := DefaultConfig()
		return c
	}

	tests := []struct {
		name        string
		modify      func(*Config)
		expectError bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }, true},
		{"bad listen addr", func(c *Config) { c.ListenAddr = "not-an-addr" }, true},
		{"root hint not an IP", func(c *Config) { c.RootHint = "a.root-servers.net:53" }, true},
		{"zero hop timeout", func(c *Config) { c.HopTimeout = 0 }, true},
		{"zero recursion depth", func(c *Config) { c.MaxRecursionDepth = 0 }, true},
		{"zero cache capacity", func(c *Config) { c.CacheCapacity = 0 }, true},
		{"empty zones dir", func(c *Config) { c.ZonesDir = "" }, true},
		{"empty blocklist file", func(c *Config) { c.BlocklistFile = "" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := base()
			test.modify(cfg)
			err := cfg.Validate()
			if test.expectError && err == nil {
				t.Error("Validate() should have returned an error")
			}
			if !test.expectError && err != nil {
				t.Errorf("Validate() returned unexpected error: %v", err)
			}
		})
	}
}

func TestConfigSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, test := range tests {
		c := &Config{LogLevel: test.level}
		if got := c.SlogLevel(); got != test.want {
			t.Errorf("SlogLevel() for %q = %v, want %v", test.level, got, test.want)
		}
	}
}
