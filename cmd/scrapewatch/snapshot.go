package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/scrapewatch/internal/dashboard"
	"github.com/IshaanNene/scrapewatch/internal/repl"
	"github.com/IshaanNene/scrapewatch/internal/statusclient"
	"github.com/IshaanNene/scrapewatch/internal/types"
)

var (
	snapshotJSON  bool
	snapshotPage  int
	snapshotQuery string
)

// snapshotCmd creates the "snapshot" subcommand.
func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch the status once and print it",
		Long:  "Fetch one page of scraper status and print it as text, or as the raw JSON body with --json.",
		Args:  cobra.NoArgs,
		RunE:  runSnapshot,
	}

	addClientFlags(cmd)
	cmd.Flags().BoolVar(&snapshotJSON, "json", false, "print the raw status as JSON")
	cmd.Flags().IntVarP(&snapshotPage, "page", "p", 1, "page to fetch")
	cmd.Flags().StringVarP(&snapshotQuery, "query", "q", "", "filter by BSN or title")

	return cmd
}

// runSnapshot executes the snapshot command.
func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(applyClientOverrides)
	if err != nil {
		return err
	}
	if snapshotPage < 1 {
		return fmt.Errorf("page must be >= 1, got %d", snapshotPage)
	}

	logger, closeLog, err := setupLogger(&cfg.Logging, false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Client.RequestTimeout)
	defer cancel()

	q := types.StatusQuery{Page: snapshotPage, Limit: cfg.Client.PageSize, Q: strings.TrimSpace(snapshotQuery)}
	snap, err := statusclient.New(&cfg.Client, logger).FetchStatus(ctx, q)
	if err != nil {
		return fmt.Errorf("fetch status: %w", err)
	}

	if snapshotJSON {
		return repl.WriteJSON(os.Stdout, snap)
	}
	return repl.WriteView(os.Stdout, dashboard.BuildView(snap, q.Page, q.Limit, time.Now()))
}
