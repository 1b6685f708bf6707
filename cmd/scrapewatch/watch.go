package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/IshaanNene/scrapewatch/internal/dashboard"
	"github.com/IshaanNene/scrapewatch/internal/monitor"
	"github.com/IshaanNene/scrapewatch/internal/observability"
	"github.com/IshaanNene/scrapewatch/internal/repl"
	"github.com/IshaanNene/scrapewatch/internal/statusclient"
	"github.com/IshaanNene/scrapewatch/internal/tui"
)

var (
	watchPlain bool
	watchJSON  bool
)

// watchCmd creates the "watch" subcommand.
func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the live dashboard",
		Long: `Poll the status backend and show the dashboard until you quit.

On a terminal this opens a full-screen UI. With --plain, or when stdin or
stdout is not a terminal, views are printed as text and commands are read
line by line (n, p, /query, r, q).`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	addClientFlags(cmd)
	cmd.Flags().BoolVar(&watchPlain, "plain", false, "use the line-based shell even on a terminal")
	cmd.Flags().BoolVar(&watchJSON, "json", false, "print every view as a JSON line (implies --plain)")

	return cmd
}

// runWatch executes the watch command.
func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(applyClientOverrides)
	if err != nil {
		return err
	}

	interactive := !watchPlain && !watchJSON &&
		term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	logger, closeLog, err := setupLogger(&cfg.Logging, interactive)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("starting dashboard",
		"url", cfg.Client.BaseURL,
		"interval", cfg.Client.PollInterval,
		"limit", cfg.Client.PageSize,
		"tui", interactive,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := monitor.NewNotifier(logger)
	notifier.AddChannel(monitor.NewLogChannel(logger))
	if cfg.Client.ChangeWebhook != "" {
		notifier.AddChannel(monitor.NewWebhookChannel(cfg.Client.ChangeWebhook, cfg.Client.RequestTimeout))
	}
	source := monitor.Watch(ctx, statusclient.New(&cfg.Client, logger), notifier)

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	newClient := func(r dashboard.Renderer, p dashboard.Prompter) *dashboard.Client {
		c := dashboard.New(&cfg.Client, source, r, p, logger)
		c.SetMetrics(metrics)
		return c
	}

	if interactive {
		err = tui.Run(ctx, "scrapewatch · "+cfg.Client.BaseURL, newClient)
	} else {
		shell := repl.New(os.Stdin, os.Stdout, logger)
		var renderer dashboard.Renderer = shell
		if watchJSON {
			renderer = repl.NewJSONLines(os.Stdout)
			shell.SetMessageOutput(os.Stderr)
		}
		client := newClient(renderer, shell)
		client.Start()
		shell.Run(ctx, client)
		client.Close()
	}

	stats := metrics.Snapshot()
	logger.Info("dashboard closed",
		"polls", stats["polls_total"],
		"failed", stats["polls_failed"],
		"renders", stats["renders"],
	)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
