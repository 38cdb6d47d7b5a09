package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/salesdeck/crm-backend/internal/api/router"
	"github.com/salesdeck/crm-backend/internal/board"
	appconfig "github.com/salesdeck/crm-backend/internal/config"
	"github.com/salesdeck/crm-backend/internal/demo"
	"github.com/salesdeck/crm-backend/internal/leads"
	"github.com/salesdeck/crm-backend/internal/observability/metrics"
	"github.com/salesdeck/crm-backend/internal/pipeline"
	"github.com/salesdeck/crm-backend/internal/users"
	"github.com/salesdeck/crm-backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting crm-backend API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Lead storage: Postgres when configured, in-memory otherwise.
	var store leads.Store
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		store = leads.NewPostgresStore(pool)
		logger.Info("lead store: postgres")
	} else {
		store = leads.NewMemoryStore()
		logger.Info("lead store: in-memory")
	}

	// Pipeline catalog: Redis when configured, in-memory otherwise.
	var catalog pipeline.Catalog
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		catalog = pipeline.NewRedisCatalog(redis.NewClient(opts))
		logger.Info("pipeline catalog: redis", "addr", cfg.RedisAddr)
	} else {
		catalog = pipeline.NewMemoryCatalog()
		logger.Info("pipeline catalog: in-memory")
	}

	if cfg.SeedDemoData {
		if err := demo.Seed(ctx, store, catalog); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
		logger.Info("demo data seeded")
	} else if err := ensureDefaultPipeline(ctx, catalog); err != nil {
		logger.Error("failed to ensure default pipeline", "error", err)
		os.Exit(1)
	}

	directory := users.NewMemoryDirectory(demo.Users()...)

	boardMetrics := metrics.NewBoardMetrics(prometheus.DefaultRegisterer)
	ctrl, err := board.NewController(ctx, store, catalog, directory, logger.Component("board"), boardMetrics)
	if err != nil {
		logger.Error("failed to create board controller", "error", err)
		os.Exit(1)
	}
	if cfg.DefaultPipelineID != "" {
		if err := ctrl.SelectPipeline(ctx, cfg.DefaultPipelineID); err != nil {
			logger.Error("failed to select configured pipeline", "pipeline_id", cfg.DefaultPipelineID, "error", err)
			os.Exit(1)
		}
	}

	routerCfg := &router.Config{
		Logger:             logger,
		BoardHandler:       board.NewHandler(ctrl, logger.Component("board")),
		PipelineHandler:    pipeline.NewHandler(catalog, logger.Component("pipeline")),
		UsersHandler:       users.NewHandler(directory, logger.Component("users")),
		MetricsHandler:     promhttp.Handler(),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// ensureDefaultPipeline seeds the baseline sales pipeline into an empty
// catalog so the board has something to render.
func ensureDefaultPipeline(ctx context.Context, catalog pipeline.Catalog) error {
	list, err := catalog.List(ctx)
	if err != nil {
		return err
	}
	if len(list) > 0 {
		return nil
	}
	return catalog.Save(ctx, demo.SalesPipeline())
}
