package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/langtogether/langtogether-api/internal/api/shared"
	"github.com/langtogether/langtogether-api/internal/mocks"
)

// testAPI wires every handler to mocks behind a fake authenticator that
// logs in testAPI.userID unless the request carries X-Anonymous.
type testAPI struct {
	t        *testing.T
	userID   uuid.UUID
	users    *mockUserService
	jwt      *mocks.MockJWTService
	decks    *mockDeckService
	progress *mockProgressService
	groups   *mockGroupService
	router   chi.Router
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a := &testAPI{
		t:        t,
		userID:   uuid.New(),
		users:    &mockUserService{},
		jwt:      &mocks.MockJWTService{},
		decks:    &mockDeckService{},
		progress: &mockProgressService{},
		groups:   &mockGroupService{},
	}

	fakeAuth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Anonymous") != "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), a.userID, "maria")))
		})
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, Handlers{
			Auth:     NewAuthHandler(a.users, a.jwt, logger),
			Decks:    NewDeckHandler(a.decks, logger),
			Progress: NewProgressHandler(a.progress, logger),
			Groups:   NewGroupHandler(a.groups, logger),
		}, fakeAuth)
	})
	a.router = r

	t.Cleanup(func() {
		a.users.AssertExpectations(t)
		a.jwt.AssertExpectations(t)
		a.decks.AssertExpectations(t)
		a.progress.AssertExpectations(t)
		a.groups.AssertExpectations(t)
	})
	return a
}

func (a *testAPI) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) doRequest(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp shared.ErrorResponse
	decodeBody(t, rec, &resp)
	return resp.Error
}

func contextWithRoute(r *http.Request, rctx *chi.Context) context.Context {
	return context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
}
