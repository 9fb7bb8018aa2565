package main

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langtogether/langtogether-api/internal/api"
	apiMiddleware "github.com/langtogether/langtogether-api/internal/api/middleware"
	"github.com/langtogether/langtogether-api/internal/config"
	"github.com/langtogether/langtogether-api/internal/platform/metrics"
	"github.com/langtogether/langtogether-api/internal/service/auth"
)

func newTestRouter(t *testing.T, health pinger) (http.Handler, *metrics.Metrics) {
	t.Helper()

	logger := discardLogger()
	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "router-test-secret-that-is-long-enough",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
		Issuer:                      "langtogether-api",
		Audience:                    "langtogether-web",
	})
	require.NoError(t, err)

	m := metrics.New()
	router := newRouter(routerDeps{
		logger: logger,
		server: config.ServerConfig{CORSAllowedOrigins: []string{"http://localhost:3000"}},
		handlers: api.Handlers{
			Auth:     api.NewAuthHandler(nil, jwtService, logger),
			Decks:    api.NewDeckHandler(nil, logger),
			Progress: api.NewProgressHandler(nil, logger),
			Groups:   api.NewGroupHandler(nil, logger),
		},
		authenticate: apiMiddleware.NewAuthMiddleware(jwtService).Authenticate,
		metrics:      m,
		health:       health,
	})
	return router, m
}

func serve(router http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectPing()

		router, _ := newTestRouter(t, db)
		rec := serve(router, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database down", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		router, _ := newTestRouter(t, db)
		rec := serve(router, http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no database", func(t *testing.T) {
		router, _ := newTestRouter(t, nil)
		rec := serve(router, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	for _, path := range []string{"/api/decks", "/api/progress-decks", "/api/groups", "/api/invitations"} {
		rec := serve(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get(apiMiddleware.TraceIDHeader), path)
	}
}

func TestRouter_PublicAuthRoutes(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := serve(router, http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	serve(router, http.MethodGet, "/health", nil)
	serve(router, http.MethodGet, "/api/decks", nil)

	rec := serve(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `langtogether_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, `route="/api/decks`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/decks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
