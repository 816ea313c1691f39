package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/riskcheck/riskcheck/internal/config"
	"github.com/riskcheck/riskcheck/internal/domain/assessment"
	"github.com/riskcheck/riskcheck/internal/domain/catalog"
	"github.com/riskcheck/riskcheck/internal/domain/profile"
	"github.com/riskcheck/riskcheck/internal/platform/auth"
	"github.com/riskcheck/riskcheck/internal/platform/db"
	"github.com/riskcheck/riskcheck/internal/platform/events"
	"github.com/riskcheck/riskcheck/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	// A missing .env is fine; real environment variables win.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "riskcheck-server",
		Short: "Health risk self-assessment API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(scoreCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// services are the domain services exposed over HTTP.
type services struct {
	catalog    *catalog.Service
	profile    *profile.Service
	assessment *assessment.Service
}

func newServices(catalogRepo catalog.Repository, profileRepo profile.Repository, assessmentRepo assessment.Repository) *services {
	catalogSvc := catalog.NewService(catalogRepo)
	profileSvc := profile.NewService(profileRepo)
	return &services{
		catalog:    catalogSvc,
		profile:    profileSvc,
		assessment: assessment.NewService(assessmentRepo, catalogSvc, profileSvc),
	}
}

func newRouter(cfg *config.Config, logger zerolog.Logger, svcs *services, checks ...db.Check) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/ready", db.HealthHandler(checks...))

	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.AuthSigningKey),
		}))
	}
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	catalog.NewHandler(svcs.catalog).RegisterRoutes(apiV1)
	profile.NewHandler(svcs.profile).RegisterRoutes(apiV1)
	assessment.NewHandler(svcs.assessment).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	logger := newLogger(os.Getenv("ENV"))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	checks := []db.Check{db.PoolCheck(pool)}

	var catalogRepo catalog.Repository = catalog.NewRepoPG(pool)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, catalog reads will fall back to postgres")
		}
		catalogRepo = catalog.NewCachedRepository(catalogRepo, rdb, cfg.CatalogCacheTTL)
		checks = append(checks, db.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
		logger.Info().Dur("ttl", cfg.CatalogCacheTTL).Msg("catalog cache enabled")
	}

	svcs := newServices(catalogRepo, profile.NewRepoPG(pool), assessment.NewRepoPG(pool))

	if cfg.AMQPURL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Warn().Err(err).Msg("amqp unavailable, assessment events disabled")
		} else {
			defer pub.Close()
			svcs.assessment.SetPublisher(pub)
			logger.Info().Str("exchange", cfg.AMQPExchange).Msg("publishing assessment events")
		}
	}

	e := newRouter(cfg, logger, svcs, checks...)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
