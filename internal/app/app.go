// Package app assembles the service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/dietplan/backend/config"
	"github.com/pageza/dietplan/backend/internal/api"
	"github.com/pageza/dietplan/backend/internal/database"
	"github.com/pageza/dietplan/backend/internal/llm"
	"github.com/pageza/dietplan/backend/internal/middleware"
	"github.com/pageza/dietplan/backend/internal/router"
	"github.com/pageza/dietplan/backend/internal/service"
	"github.com/pageza/dietplan/backend/internal/storage"
)

// App is the wired HTTP handler plus everything that must be released on exit
type App struct {
	Handler http.Handler
	closers []func() error
}

// Build wires the generator, the optional history store, rate limiter and
// archive, and the router. Optional components are enabled by configuration.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{}

	generator, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create inference client: %w", err)
	}
	a.closers = append(a.closers, generator.Close)
	if cfg.LLMAPIKey == "" {
		logger.Warn().Str("provider", cfg.LLMProvider).Msg("no inference credential configured")
	}

	var (
		opts    []service.Option
		checks  []api.HealthCheck
		history service.IHistoryService
	)

	if cfg.HistoryEnabled() {
		db, err := database.New(cfg, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() error { return database.Close(db) })

		if err := database.RunMigrations(db, cfg.MigrationsDir, logger); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		history = service.NewHistoryService(db)
		opts = append(opts, service.WithHistory(history))
		checks = append(checks, api.HealthCheck{
			Name:  "database",
			Check: func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
		})
	}

	if cfg.ArchiveEnabled() {
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to configure plan archive: %w", err)
		}
		opts = append(opts, service.WithArchive(storage.NewS3Archive(s3Cfg)))
		logger.Info().Str("bucket", cfg.S3BucketName).Msg("plan archive enabled")
	}

	rateLimit, check, err := a.rateLimit(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if check != nil {
		checks = append(checks, *check)
	}

	plans := service.NewDietPlanServiceFromConfig(cfg, generator, opts...)
	a.Handler = router.SetupRouter(
		logger,
		api.NewDietPlanHandler(plans, history),
		api.NewHealthHandler(checks...),
		rateLimit,
	)

	logger.Info().
		Str("provider", cfg.LLMProvider).
		Str("model", cfg.LLMModel).
		Bool("history", cfg.HistoryEnabled()).
		Bool("archive", cfg.ArchiveEnabled()).
		Msg("application wired")
	return a, nil
}

// rateLimit picks the Redis limiter when REDIS_URL is set and reachable,
// falling back to the in-memory limiter otherwise.
func (a *App) rateLimit(cfg *config.Config, logger zerolog.Logger) (gin.HandlerFunc, *api.HealthCheck, error) {
	if cfg.RateLimitRequests <= 0 {
		return nil, nil, nil
	}

	limitCfg := middleware.RateLimitConfig{
		Window:    cfg.RateLimitWindow,
		Limit:     cfg.RateLimitRequests,
		KeyPrefix: "rate_limit:diet_plan",
	}

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg, logger)
		if err == nil {
			a.closers = append(a.closers, client.Close)
			check := &api.HealthCheck{
				Name:  "redis",
				Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
			}
			return middleware.RateLimit(middleware.NewRateLimiter(client, limitCfg), limitCfg), check, nil
		}
		logger.Warn().Err(err).Msg("redis unavailable, using in-memory rate limiter")
	}

	limiter, err := middleware.NewMemoryRateLimiter(limitCfg, 0)
	if err != nil {
		return nil, nil, err
	}
	return middleware.RateLimit(limiter, limitCfg), nil, nil
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
