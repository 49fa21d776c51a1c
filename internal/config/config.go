// Package config provides configuration management for xtreamctl using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jmylchreest/xtreamctl/internal/urlutil"
)

// Default configuration values.
const (
	defaultHTTPTimeout       = 6 * time.Second
	defaultRetryAttempts     = 4
	defaultRedirectAttempts  = 2
	defaultRetryDelay        = 1 * time.Second
	defaultRetryMaxDelay     = 12 * time.Second
	defaultRateLimitDelay    = 10 * time.Second
	defaultPlaylistType      = "m3u"
	defaultNumberingPolicy   = "per-category"
	defaultLoggingLevel      = "info"
	defaultLoggingFormat     = "text"
	defaultLoggingTimeFormat = time.RFC3339
)

// Config holds all configuration for the application.
type Config struct {
	Panel    PanelConfig    `mapstructure:"panel"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Playlist PlaylistConfig `mapstructure:"playlist"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PanelConfig holds the Xtream panel connection settings.
type PanelConfig struct {
	URL          string `mapstructure:"url"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PlaylistType string `mapstructure:"playlist_type"` // m3u, m3u_plus
	OutputType   string `mapstructure:"output_type"`   // empty or a server-advertised format
	UserAgent    string `mapstructure:"user_agent"`    // empty = built-in default
}

// HTTPConfig holds transport tuning for panel requests.
type HTTPConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	RetryAttempts    int           `mapstructure:"retry_attempts"`
	RedirectAttempts int           `mapstructure:"redirect_attempts"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	RetryMaxDelay    time.Duration `mapstructure:"retry_max_delay"`
	RateLimitDelay   time.Duration `mapstructure:"rate_limit_delay"`
}

// PlaylistConfig holds playlist generation settings.
type PlaylistConfig struct {
	ChannelStart  int    `mapstructure:"channel_start"`  // 0 disables tvg-no numbering
	Numbering     string `mapstructure:"numbering"`      // per-category, continuous
	IncludeHeader bool   `mapstructure:"include_header"` // prepend #EXTM3U
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration and are
// prefixed with XTREAMCTL_, using underscores for nesting.
// Example: XTREAMCTL_PANEL_URL=http://host:8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.xtreamctl")
		v.AddConfigPath("/etc/xtreamctl")
	}

	v.SetEnvPrefix("XTREAMCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is OK - defaults and env vars still apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file.
func SetDefaults(v *viper.Viper) {
	// Panel defaults
	v.SetDefault("panel.url", "")
	v.SetDefault("panel.username", "")
	v.SetDefault("panel.password", "")
	v.SetDefault("panel.playlist_type", defaultPlaylistType)
	v.SetDefault("panel.output_type", "")
	v.SetDefault("panel.user_agent", "")

	// HTTP defaults mirror the panel-friendly retry policy: exponential
	// backoff from 1s capped at 12s, with a fixed wait after HTTP 429.
	v.SetDefault("http.timeout", defaultHTTPTimeout)
	v.SetDefault("http.retry_attempts", defaultRetryAttempts)
	v.SetDefault("http.redirect_attempts", defaultRedirectAttempts)
	v.SetDefault("http.retry_delay", defaultRetryDelay)
	v.SetDefault("http.retry_max_delay", defaultRetryMaxDelay)
	v.SetDefault("http.rate_limit_delay", defaultRateLimitDelay)

	// Playlist defaults
	v.SetDefault("playlist.channel_start", 0)
	v.SetDefault("playlist.numbering", defaultNumberingPolicy)
	v.SetDefault("playlist.include_header", true)

	// Logging defaults
	v.SetDefault("logging.level", defaultLoggingLevel)
	v.SetDefault("logging.format", defaultLoggingFormat)
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", defaultLoggingTimeFormat)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Panel.URL != "" {
		if err := urlutil.ValidateBaseURL(c.Panel.URL); err != nil {
			return fmt.Errorf("panel.url: %w", err)
		}
	}

	validPlaylistTypes := map[string]bool{"m3u": true, "m3u_plus": true}
	if !validPlaylistTypes[c.Panel.PlaylistType] {
		return fmt.Errorf("panel.playlist_type must be one of: m3u, m3u_plus")
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.RetryAttempts < 0 {
		return fmt.Errorf("http.retry_attempts must not be negative")
	}
	if c.HTTP.RedirectAttempts < 0 {
		return fmt.Errorf("http.redirect_attempts must not be negative")
	}

	validNumbering := map[string]bool{"per-category": true, "continuous": true}
	if !validNumbering[c.Playlist.Numbering] {
		return fmt.Errorf("playlist.numbering must be one of: per-category, continuous")
	}
	if c.Playlist.ChannelStart < 0 {
		return fmt.Errorf("playlist.channel_start must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
