// Package main implements the langtogether-api command: the HTTP API server
// for decks, progress decks, groups and spaced-repetition review sessions,
// plus the schema migration tooling.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/langtogether/langtogether-api/internal/config"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

var migrateCommands = []string{"up", "up-by-one", "down", "reset", "redo", "status", "version"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. Running the root command without
// a subcommand starts the server.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "langtogether-api",
		Short:         "Language-learning flashcard API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})

	root.AddCommand(&cobra.Command{
		Use:       "migrate [command]",
		Short:     "Run database migrations (up, up-by-one, down, reset, redo, status, version)",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}
			return runMigrations(cmd.Context(), cfg, log, args[0])
		},
	})

	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := initializeApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database", slog.Any("error", closeErr))
		}
		return err
	}
	defer app.cleanup()

	return app.Run(ctx)
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("llm_enabled", cfg.LLM.Enabled()),
		slog.Bool("jobs_enabled", cfg.Jobs.Enabled))

	return cfg, log, nil
}
