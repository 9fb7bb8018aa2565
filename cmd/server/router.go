package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/langtogether/langtogether-api/internal/api"
	apiMiddleware "github.com/langtogether/langtogether-api/internal/api/middleware"
	"github.com/langtogether/langtogether-api/internal/config"
	"github.com/langtogether/langtogether-api/internal/platform/metrics"
)

const healthCheckTimeout = 2 * time.Second

// pinger reports whether the database is reachable.
type pinger interface {
	PingContext(ctx context.Context) error
}

type routerDeps struct {
	logger       *slog.Logger
	server       config.ServerConfig
	handlers     api.Handlers
	authenticate func(http.Handler) http.Handler
	metrics      *metrics.Metrics
	health       pinger
}

// newRouter creates the application router with middleware, the API under
// /api, and the operational endpoints.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(deps.logger))
	r.Use(apiMiddleware.NewCORS(deps.server.CORSAllowedOrigins))
	if deps.metrics != nil {
		r.Use(deps.metrics.Middleware)
	}

	r.Route("/api", func(r chi.Router) {
		api.RegisterRoutes(r, deps.handlers, deps.authenticate)
	})

	r.Get("/health", healthHandler(deps.health, deps.logger))
	if deps.metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.metrics.Handler())
	}

	return r
}

// healthHandler answers 200 OK, or 503 when the database does not respond.
func healthHandler(db pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, "OK"
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.Warn("health check failed", slog.Any("error", err))
				status, body = http.StatusServiceUnavailable, "database unavailable"
			}
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			logger.Error("failed to write health check response", slog.Any("error", err))
		}
	}
}
