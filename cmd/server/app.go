package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/langtogether/langtogether-api/internal/api"
	apiMiddleware "github.com/langtogether/langtogether-api/internal/api/middleware"
	"github.com/langtogether/langtogether-api/internal/config"
	"github.com/langtogether/langtogether-api/internal/domain/srs"
	"github.com/langtogether/langtogether-api/internal/jobs"
	"github.com/langtogether/langtogether-api/internal/platform/gemini"
	"github.com/langtogether/langtogether-api/internal/platform/metrics"
	"github.com/langtogether/langtogether-api/internal/platform/postgres"
	"github.com/langtogether/langtogether-api/internal/platform/xlsx"
	"github.com/langtogether/langtogether-api/internal/service"
	"github.com/langtogether/langtogether-api/internal/service/auth"
)

// maxImportRows bounds the rows read from one uploaded spreadsheet.
const maxImportRows = 1000

// application holds the shared dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metrics    *metrics.Metrics
	jwtService auth.JWTService
	handlers   api.Handlers

	scheduler *jobs.Scheduler
}

// newApplication wires stores, services and handlers on top of an open
// database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	deckStore := postgres.NewPostgresDeckStore(db, logger)
	progressStore := postgres.NewPostgresProgressDeckStore(db, logger)
	statsStore := postgres.NewPostgresStatisticsStore(db, logger)
	groupStore := postgres.NewPostgresGroupStore(db, logger)
	invitationStore := postgres.NewPostgresInvitationStore(db, logger)

	userService, err := service.NewUserService(userStore, auth.NewBcryptVerifier(), db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	var generator service.CardGenerator
	if cfg.LLM.Enabled() {
		g, err := gemini.NewGenerator(ctx, logger.With(slog.String("component", "llm_generator")), cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		generator = g
		logger.Info("LLM generator initialized", slog.String("model", cfg.LLM.ModelName))
	} else {
		logger.Info("LLM generator disabled, card generation unavailable")
	}

	deckService, err := service.NewDeckService(db, deckStore, xlsx.NewReader(maxImportRows), generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	progressService, err := service.NewProgressService(
		db,
		progressStore,
		deckStore,
		statsStore,
		srs.NewDefaultService(),
		logger,
		service.WithReviewObserver(app.metrics),
		service.WithDefaultDailyCardLimit(cfg.Review.DefaultDailyCardLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress service: %w", err)
	}

	groupService, err := service.NewGroupService(db, service.GroupStores{
		Users:       userStore,
		Groups:      groupStore,
		Invitations: invitationStore,
		Progress:    progressStore,
		Decks:       deckStore,
		Stats:       statsStore,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create group service: %w", err)
	}

	app.handlers = api.Handlers{
		Auth:     api.NewAuthHandler(userService, app.jwtService, logger),
		Decks:    api.NewDeckHandler(deckService, logger),
		Progress: api.NewProgressHandler(progressService, logger),
		Groups:   api.NewGroupHandler(groupService, logger),
	}

	if cfg.Jobs.Enabled {
		sweeper, err := jobs.NewInvitationSweeper(
			invitationStore,
			time.Duration(cfg.Jobs.InvitationTTLDays)*24*time.Hour,
			logger,
			jobs.WithExpiredCallback(app.metrics.InvitationsExpired),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create invitation sweeper: %w", err)
		}
		app.scheduler, err = jobs.NewScheduler(cfg.Jobs, sweeper, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create job scheduler: %w", err)
		}
	}

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP, and the background jobs when enabled, until ctx is
// cancelled.
func (app *application) Run(ctx context.Context) error {
	router := newRouter(routerDeps{
		logger:       app.logger,
		server:       app.config.Server,
		handlers:     app.handlers,
		authenticate: apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate,
		metrics:      app.metrics,
		health:       app.db,
	})

	if err := app.serve(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.Any("error", err))
		}
	}
	app.logger.Info("application shutdown completed")
}
