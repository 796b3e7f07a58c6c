// Package main is the entrypoint for the shopfloor API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/shopfloor/internal/ai"
	"github.com/kiranshivaraju/shopfloor/internal/api"
	"github.com/kiranshivaraju/shopfloor/internal/api/handler"
	mw "github.com/kiranshivaraju/shopfloor/internal/api/middleware"
	"github.com/kiranshivaraju/shopfloor/internal/api/response"
	"github.com/kiranshivaraju/shopfloor/internal/cache"
	"github.com/kiranshivaraju/shopfloor/internal/config"
	"github.com/kiranshivaraju/shopfloor/internal/inspection"
	"github.com/kiranshivaraju/shopfloor/internal/labor"
	"github.com/kiranshivaraju/shopfloor/internal/store"
	"github.com/kiranshivaraju/shopfloor/internal/workorder"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, failing fast when it is invalid
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create AI provider
	aiProvider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	aiService := ai.NewService(aiProvider, cfg.AI.InferenceTimeout)
	slog.Info("AI provider initialized", "provider", aiService.ProviderName())

	// 6. Create store and services
	pgStore := store.NewPostgresStore(pool)
	estimator := labor.NewEstimator(aiService, redisCache, cfg.Labor.EstimateCacheTTL)
	inspections := inspection.NewService(pgStore, inspection.NewSessionCache(redisCache, cfg.Inspection.SessionTTL), aiService)
	writer := workorder.NewWriter(pgStore, estimator)
	pipeline := workorder.NewService(inspections, writer)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		Auth:      mw.NewAuth(pgStore),
		RateLimit: mw.NewRateLimit(redisCache, cfg.Server.RateLimitPerMinute),

		HealthHandler: healthHandler(pgStore, redisCache),

		SortJobsHandler:      handler.NewSortJobsHandler(),
		LaborEstimateHandler: handler.NewLaborEstimateHandler(estimator),

		CreateInspectionHandler:   handler.NewCreateInspectionHandler(inspections),
		GetInspectionHandler:      handler.NewGetInspectionHandler(inspections),
		ReplaceInspectionHandler:  handler.NewReplaceInspectionHandler(inspections),
		UpdateItemsHandler:        handler.NewUpdateItemsHandler(inspections),
		GenerateInspectionHandler: handler.NewGenerateInspectionHandler(aiService),
		QuoteHandler:              handler.NewQuoteHandler(pipeline),
		QuoteXLSXHandler:          handler.NewQuoteXLSXHandler(pipeline),
		LinesFromInspection:       handler.NewLinesFromInspectionHandler(pipeline),

		WriteLinesHandler: handler.NewWriteLinesHandler(writer),
		ListLinesHandler:  handler.NewListLinesHandler(writer),
		LineStatusHandler: handler.NewLineStatusHandler(writer),

		CreateKeyHandler: handler.NewCreateKeyHandler(pgStore),
		ListKeysHandler:  handler.NewListKeysHandler(pgStore),
		RevokeKeyHandler: handler.NewRevokeKeyHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// pinger is anything the health check can probe.
type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler checks database and cache connectivity.
func healthHandler(db, c pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := db.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
