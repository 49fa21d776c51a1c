// Package cmd implements the CLI commands for xtreamctl.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/xtreamctl/internal/config"
	"github.com/jmylchreest/xtreamctl/internal/observability"
	"github.com/jmylchreest/xtreamctl/internal/version"
	"github.com/jmylchreest/xtreamctl/pkg/httpclient"
	"github.com/jmylchreest/xtreamctl/pkg/xtream"
)

// cfgFile holds the config file path from CLI flag.
var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "xtreamctl",
	Short:   "Xtream Codes panel client",
	Version: version.Short(),
	Long: `xtreamctl is a command line client for Xtream Codes compatible IPTV
panels. It authenticates against a panel, lists categories and streams,
fetches EPG data, and builds or downloads M3U playlists and XMLTV files.

Panel connection settings come from flags, environment variables
(XTREAMCTL_PANEL_URL etc.), or a config file.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return initLogging()
	}

	// Global flags are not bound to viper. They override config/env values
	// only when explicitly set, preserving the priority
	// CLI flag > env var > config > default.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., $HOME/.xtreamctl, /etc/xtreamctl)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	rootCmd.PersistentFlags().StringP("server", "s", "", "panel base URL (e.g. http://host:8080)")
	rootCmd.PersistentFlags().StringP("username", "u", "", "panel username")
	rootCmd.PersistentFlags().StringP("password", "p", "", "panel password")
	rootCmd.PersistentFlags().String("user-agent", "", "User-Agent header sent to the panel")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per-request timeout (0 uses the configured default)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home + "/.xtreamctl")
		viper.AddConfigPath("/etc/xtreamctl")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("XTREAMCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogging configures the slog logger based on configuration.
// Uses the observability package so credential redaction is applied.
//
// Priority order (highest to lowest):
//  1. CLI flags (--log-level, --log-format) - only if explicitly provided
//  2. Environment variables (XTREAMCTL_LOGGING_LEVEL, XTREAMCTL_LOGGING_FORMAT)
//  3. Config file values
//  4. Built-in defaults (info, text)
func initLogging() error {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	if rootCmd.PersistentFlags().Changed("log-level") {
		level, _ = rootCmd.PersistentFlags().GetString("log-level")
	}
	if rootCmd.PersistentFlags().Changed("log-format") {
		format, _ = rootCmd.PersistentFlags().GetString("log-format")
	}

	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "text"
	}

	logCfg := config.LoggingConfig{
		Level:  strings.ToLower(level),
		Format: strings.ToLower(format),
	}
	if logCfg.Level == "warning" {
		logCfg.Level = "warn"
	}

	logger := observability.NewLoggerWithWriter(logCfg, os.Stderr)
	logger = observability.WithApp(logger, "xtreamctl")
	observability.SetDefault(logger)

	return nil
}

// loadConfig unmarshals the viper state into a validated Config, with
// explicitly-set panel flags overriding config/env values.
func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	flags := rootCmd.PersistentFlags()
	overrideString(flags, "server", &cfg.Panel.URL)
	overrideString(flags, "username", &cfg.Panel.Username)
	overrideString(flags, "password", &cfg.Panel.Password)
	overrideString(flags, "user-agent", &cfg.Panel.UserAgent)
	if flags.Changed("timeout") {
		timeout, _ := flags.GetDuration("timeout")
		if timeout > 0 {
			cfg.HTTP.Timeout = timeout
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Panel.URL == "" {
		return nil, fmt.Errorf("panel URL is required (--server, XTREAMCTL_PANEL_URL, or config file)")
	}
	if cfg.Panel.Username == "" || cfg.Panel.Password == "" {
		return nil, fmt.Errorf("panel credentials are required (--username/--password, env, or config file)")
	}

	return &cfg, nil
}

// overrideString replaces target with the flag's value when the flag was
// explicitly set on the command line.
func overrideString(flags *pflag.FlagSet, name string, target *string) {
	if flags.Changed(name) {
		*target, _ = flags.GetString(name)
	}
}

// newTransport builds the retrying HTTP client from configuration.
func newTransport(cfg *config.Config, logger *slog.Logger) *httpclient.Client {
	transportCfg := httpclient.DefaultConfig()
	transportCfg.Timeout = cfg.HTTP.Timeout
	transportCfg.RetryAttempts = cfg.HTTP.RetryAttempts
	transportCfg.RedirectAttempts = cfg.HTTP.RedirectAttempts
	transportCfg.RetryDelay = cfg.HTTP.RetryDelay
	transportCfg.RetryMaxDelay = cfg.HTTP.RetryMaxDelay
	transportCfg.RateLimitDelay = cfg.HTTP.RateLimitDelay
	transportCfg.UserAgent = cfg.Panel.UserAgent
	transportCfg.Logger = observability.WithComponent(logger, "httpclient")
	return httpclient.New(transportCfg)
}

// newPanelClient builds the panel client from the merged configuration.
// The configured output type, if any, is applied by applyOutputType once
// the client has authenticated.
func newPanelClient() (*xtream.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.Default()

	opts := []xtream.Option{
		xtream.WithHTTPClient(newTransport(cfg, logger)),
		xtream.WithLogger(observability.WithComponent(logger, "xtream")),
		xtream.WithPlaylistType(cfg.Panel.PlaylistType),
	}
	if cfg.Panel.UserAgent != "" {
		opts = append(opts, xtream.WithHeaders(map[string]string{
			"User-Agent": cfg.Panel.UserAgent,
		}))
	}

	client, err := xtream.New(cfg.Panel.URL, cfg.Panel.Username, cfg.Panel.Password, opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// applyOutputType authenticates and applies the configured live output
// type. Output types are validated against the formats the server
// advertises, so authentication has to come first.
func applyOutputType(ctx context.Context, client *xtream.Client, cfg *config.Config) error {
	if err := client.EnsureAuthenticated(ctx); err != nil {
		return err
	}
	if cfg.Panel.OutputType == "" {
		return nil
	}
	return client.SetOutputType(cfg.Panel.OutputType)
}

// commandContext returns the context for one command invocation.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// formatUnix renders a unix timestamp, or a placeholder for zero.
func formatUnix(ts int64) string {
	if ts == 0 {
		return "never"
	}
	return time.Unix(ts, 0).Format(time.RFC3339)
}
