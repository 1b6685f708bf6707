package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/scrapewatch/internal/config"
)

var (
	cfgFile      string
	verbose      bool
	baseURL      string
	pageSize     int
	pollInterval string
	discardStale bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scrapewatch",
		Short: "Live status dashboard for a scraper fleet",
		Long: `scrapewatch polls a scraper backend and shows its state live.

Features:
  • Global status, page and task counters, CPU and memory of the backend
  • Paginated scraper cards with debounced search by BSN or title
  • Confirmed restart of all scrapers
  • Full-screen terminal UI, or a line-based shell when not on a TTY
  • One-shot snapshots as text or JSON
  • Development status backend with in-memory or MongoDB state`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addClientFlags registers the flags shared by commands that talk to a backend.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&baseURL, "url", "u", "", "status backend base URL")
	cmd.Flags().IntVarP(&pageSize, "limit", "l", 0, "scrapers per page")
	cmd.Flags().StringVar(&pollInterval, "interval", "", "poll interval (e.g. 2s)")
	cmd.Flags().BoolVar(&discardStale, "discard-stale", false, "drop responses older than the last one shown")
}

// loadConfig loads, overrides and validates the configuration.
func loadConfig(overrides ...func(*config.Config) error) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	for _, apply := range overrides {
		if err := apply(cfg); err != nil {
			return nil, err
		}
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyClientOverrides applies command-line flag values to the client config.
func applyClientOverrides(cfg *config.Config) error {
	if baseURL != "" {
		cfg.Client.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if pageSize > 0 {
		cfg.Client.PageSize = pageSize
	}
	if pollInterval != "" {
		d, err := time.ParseDuration(pollInterval)
		if err != nil {
			return fmt.Errorf("invalid --interval %q: %w", pollInterval, err)
		}
		cfg.Client.PollInterval = d
	}
	if discardStale {
		cfg.Client.DiscardStale = true
	}
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scrapewatch %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Client:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Client.BaseURL)
			fmt.Printf("  Poll Interval:     %s\n", cfg.Client.PollInterval)
			fmt.Printf("  Page Size:         %d\n", cfg.Client.PageSize)
			fmt.Printf("  Search Debounce:   %s\n", cfg.Client.SearchDebounce)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Client.RequestTimeout)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Client.MaxBodySize)
			fmt.Printf("  Discard Stale:     %v\n", cfg.Client.DiscardStale)
			if cfg.Client.ChangeWebhook != "" {
				fmt.Printf("  Change Webhook:    %s\n", cfg.Client.ChangeWebhook)
			}
			fmt.Printf("\nServer:\n")
			fmt.Printf("  Port:              %d\n", cfg.Server.Port)
			fmt.Printf("  Seed File:         %s\n", cfg.Server.SeedFile)
			fmt.Printf("  Web Page:          %v\n", cfg.Server.Web)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			if cfg.Storage.Type == "mongodb" {
				fmt.Printf("  URI:               %s\n", cfg.Storage.URI)
				fmt.Printf("  Collection:        %s.%s\n", cfg.Storage.Database, cfg.Storage.Collection)
			}
			fmt.Printf("\nLogging:\n")
			fmt.Printf("  Level:             %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:            %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:            %s\n", cfg.Logging.Output)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			return nil
		},
	}
	return cmd
}

// setupLogger creates a structured logger. When the terminal is taken by
// the full-screen UI, stderr output is redirected to a file in the temp dir.
func setupLogger(cfg *config.LoggingConfig, screen bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var (
		out     io.Writer = os.Stderr
		closeFn           = func() {}
	)
	path := cfg.Output
	if screen && (path == "" || path == "stderr") {
		path = filepath.Join(os.TempDir(), "scrapewatch.log")
	}
	switch path {
	case "", "stderr":
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(handler), closeFn, nil
}
