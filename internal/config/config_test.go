package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()

	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshaling defaults: %v", err)
	}
	return &cfg
}

func TestSetDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	if cfg.Panel.PlaylistType != "m3u" {
		t.Errorf("expected default playlist_type 'm3u', got %q", cfg.Panel.PlaylistType)
	}
	if cfg.HTTP.Timeout != 6*time.Second {
		t.Errorf("expected default timeout 6s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.RetryAttempts != 4 {
		t.Errorf("expected default retry_attempts 4, got %d", cfg.HTTP.RetryAttempts)
	}
	if cfg.HTTP.RedirectAttempts != 2 {
		t.Errorf("expected default redirect_attempts 2, got %d", cfg.HTTP.RedirectAttempts)
	}
	if cfg.HTTP.RetryMaxDelay != 12*time.Second {
		t.Errorf("expected default retry_max_delay 12s, got %v", cfg.HTTP.RetryMaxDelay)
	}
	if cfg.HTTP.RateLimitDelay != 10*time.Second {
		t.Errorf("expected default rate_limit_delay 10s, got %v", cfg.HTTP.RateLimitDelay)
	}
	if cfg.Playlist.Numbering != "per-category" {
		t.Errorf("expected default numbering 'per-category', got %q", cfg.Playlist.Numbering)
	}
	if !cfg.Playlist.IncludeHeader {
		t.Error("expected include_header to default to true")
	}
}

func TestValidate_Defaults(t *testing.T) {
	if err := defaultConfig(t).Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad panel url", func(c *Config) { c.Panel.URL = "not-a-url" }},
		{"bad playlist type", func(c *Config) { c.Panel.PlaylistType = "pls" }},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.HTTP.RetryAttempts = -1 }},
		{"bad numbering", func(c *Config) { c.Playlist.Numbering = "random" }},
		{"negative channel start", func(c *Config) { c.Playlist.ChannelStart = -5 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
panel:
  url: http://example.com:8080
  username: user
  password: pass
  playlist_type: m3u_plus
http:
  timeout: 10s
playlist:
  channel_start: 100
  numbering: continuous
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Panel.URL != "http://example.com:8080" {
		t.Errorf("unexpected panel url: %q", cfg.Panel.URL)
	}
	if cfg.Panel.PlaylistType != "m3u_plus" {
		t.Errorf("unexpected playlist_type: %q", cfg.Panel.PlaylistType)
	}
	if cfg.HTTP.Timeout != 10*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.HTTP.Timeout)
	}
	if cfg.Playlist.ChannelStart != 100 {
		t.Errorf("unexpected channel_start: %d", cfg.Playlist.ChannelStart)
	}
	// Unset values still come from defaults.
	if cfg.HTTP.RetryAttempts != 4 {
		t.Errorf("expected default retry_attempts, got %d", cfg.HTTP.RetryAttempts)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getting working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("changing directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Panel.PlaylistType != "m3u" {
		t.Errorf("expected defaults, got playlist_type %q", cfg.Panel.PlaylistType)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("panel:\n  playlist_type: bogus\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for bogus playlist_type")
	}
}
