package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/scrapewatch/internal/config"
	"github.com/IshaanNene/scrapewatch/internal/statusapi"
)

var (
	servePort  int
	serveSeed  string
	serveStore string
	serveNoWeb bool
)

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development status backend",
		Long: `Serve GET /api/status, POST /api/refresh and GET /api/health from a
state file (memory store) or a MongoDB collection, plus a browser dashboard at /.

A refresh reloads the state from the store.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port")
	cmd.Flags().StringVar(&serveSeed, "seed", "", "JSON state file (imported into MongoDB when --store=mongodb)")
	cmd.Flags().StringVar(&serveStore, "store", "", "state backend: memory, mongodb")
	cmd.Flags().BoolVar(&serveNoWeb, "no-web", false, "do not serve the browser dashboard")

	return cmd
}

// applyServeOverrides applies command-line flag values to the server config.
func applyServeOverrides(cfg *config.Config) error {
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if serveSeed != "" {
		cfg.Server.SeedFile = serveSeed
	}
	if serveStore != "" {
		cfg.Storage.Type = serveStore
	}
	if serveNoWeb {
		cfg.Server.Web = false
	}
	return nil
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(applyServeOverrides)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(&cfg.Logging, false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := statusapi.NewStore(ctx, &cfg.Storage, cfg.Server.SeedFile, logger)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	srv := statusapi.NewServer(&cfg.Server, store, statusapi.HostSampler{}, logger)
	if err := srv.Load(ctx); err != nil {
		store.Close()
		return fmt.Errorf("load state: %w", err)
	}
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	<-ctx.Done()
	logger.Info("received signal, shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
