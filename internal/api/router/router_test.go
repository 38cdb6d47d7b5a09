package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/salesdeck/crm-backend/internal/board"
	"github.com/salesdeck/crm-backend/internal/leads"
	"github.com/salesdeck/crm-backend/internal/pipeline"
	"github.com/salesdeck/crm-backend/internal/users"
	"github.com/salesdeck/crm-backend/pkg/logging"
)

func newTestRouter(t *testing.T, secret string) http.Handler {
	t.Helper()

	catalog := pipeline.NewMemoryCatalog(&pipeline.Pipeline{
		ID:        "sales",
		Name:      "Sales",
		IsDefault: true,
		Stages: []pipeline.Stage{
			{ID: "new", Name: "New", Order: 1},
			{ID: "won", Name: "Closed Won", Order: 2, IsClosedWon: true},
		},
	})
	store := leads.NewMemoryStore()
	dir := users.NewMemoryDirectory(&users.User{ID: "u1", Name: "Ana"})
	logger := logging.Default()

	ctrl, err := board.NewController(context.Background(), store, catalog, dir, logger, nil)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}

	return New(&Config{
		Logger:          logger,
		BoardHandler:    board.NewHandler(ctrl, logger),
		PipelineHandler: pipeline.NewHandler(catalog, logger),
		UsersHandler:    users.NewHandler(dir, logger),
		AdminAuthSecret: secret,
	})
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouterRoutesMounted(t *testing.T) {
	r := newTestRouter(t, "")

	for _, path := range []string{"/board", "/board/stats", "/pipelines", "/users"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouterWriteGuard(t *testing.T) {
	const secret = "router-secret"
	r := newTestRouter(t, secret)

	// Reads stay public.
	req := httptest.NewRequest(http.MethodGet, "/board", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /board: expected 200, got %d", rec.Code)
	}

	// Writes require a token.
	req = httptest.NewRequest(http.MethodDelete, "/board/filters", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated write: expected 401, got %d", rec.Code)
	}

	claims := jwt.RegisteredClaims{
		Subject:   "admin-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	req = httptest.NewRequest(http.MethodDelete, "/board/filters", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated write: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterNoGuardWithoutSecret(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodDelete, "/board/filters", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected open writes without secret, got %d", rec.Code)
	}
}
