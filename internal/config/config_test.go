// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
  request_timeout_seconds: 60
provider:
  source: yahoo
  timeout_seconds: 10
archive:
  enabled: true
  type: localfs
  path: /tmp/archive
metrics:
  enabled: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Path != "/tmp/archive" {
		t.Errorf("unexpected archive config: %+v", cfg.Archive)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be disabled")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_DRIPLINE_KEY", "secret-key")
	path := writeConfig(t, `
server:
  port: 8080
  api_key: ${TEST_DRIPLINE_KEY}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.APIKey != "secret-key" {
		t.Errorf("expected env expansion, got %q", cfg.Server.APIKey)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("unexpected default port: %d", cfg.Server.Port)
	}
	if cfg.Provider.Source != "yahoo" {
		t.Errorf("unexpected default source: %s", cfg.Provider.Source)
	}
	if cfg.Archive.Enabled {
		t.Error("archive should default to disabled")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("unexpected metrics defaults: %+v", cfg.Metrics)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults ok", func(c *Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative timeout", func(c *Config) { c.Server.RequestTimeout = -1 }, true},
		{"unknown source", func(c *Config) { c.Provider.Source = "bloomberg" }, true},
		{"empty source ok", func(c *Config) { c.Provider.Source = "" }, false},
		{"archive enabled without path", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Path = ""
		}, true},
		{"s3 without bucket", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Type = "s3"
		}, true},
		{"s3 with bucket ok", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Type = "s3"
			c.Archive.S3.Bucket = "prices"
		}, false},
		{"unknown archive type", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Type = "tape"
		}, true},
		{"claude without key", func(c *Config) { c.Insight.Provider = "claude" }, true},
		{"claude with key ok", func(c *Config) {
			c.Insight.Provider = "claude"
			c.Insight.Claude.APIKey = "k"
		}, false},
		{"openai without key", func(c *Config) { c.Insight.Provider = "openai" }, true},
		{"unknown insight provider", func(c *Config) { c.Insight.Provider = "bard" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
