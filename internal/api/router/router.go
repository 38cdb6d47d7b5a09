// Package router wires the HTTP surface of the CRM backend.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/salesdeck/crm-backend/internal/board"
	httpmiddleware "github.com/salesdeck/crm-backend/internal/http/middleware"
	"github.com/salesdeck/crm-backend/internal/pipeline"
	"github.com/salesdeck/crm-backend/internal/users"
	"github.com/salesdeck/crm-backend/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	BoardHandler    *board.Handler
	PipelineHandler *pipeline.Handler
	UsersHandler    *users.Handler
	MetricsHandler  http.Handler

	// AdminAuthSecret, when non-empty, protects mutating routes with an
	// HMAC-signed JWT.
	AdminAuthSecret    string
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	guard := writeGuard(cfg.AdminAuthSecret)

	if cfg.BoardHandler != nil {
		r.With(guard).Mount("/board", cfg.BoardHandler.Routes())
	}
	if cfg.PipelineHandler != nil {
		r.With(guard).Mount("/pipelines", cfg.PipelineHandler.Routes())
	}
	if cfg.UsersHandler != nil {
		r.Get("/users", cfg.UsersHandler.List)
	}

	return r
}

// writeGuard applies admin JWT auth to mutating methods only; reads stay
// public. With no secret configured everything is open (development).
func writeGuard(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	auth := httpmiddleware.AdminJWT(secret)
	return func(next http.Handler) http.Handler {
		authed := auth(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				authed.ServeHTTP(w, r)
			}
		})
	}
}
