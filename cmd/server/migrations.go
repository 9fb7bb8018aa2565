package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/langtogether/langtogether-api/internal/config"
	"github.com/langtogether/langtogether-api/internal/platform/postgres"
)

// runMigrations applies a goose command using the migrations embedded in
// the postgres package.
func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, command string) error {
	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	logger.Info("running migrations", slog.String("command", command))
	if err := postgres.Migrate(ctx, db, command, logger); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	logger.Info("migrations finished", slog.String("command", command))
	return nil
}
