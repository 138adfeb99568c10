package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pdfshare/docs"
	"pdfshare/internal/config"
	"pdfshare/internal/database"
	"pdfshare/internal/database/migration"
	handlers "pdfshare/internal/http/handler"
	"pdfshare/internal/http/middleware"
	"pdfshare/internal/logging"
	"pdfshare/internal/metrics"
	"pdfshare/internal/otel"
	"pdfshare/internal/ratelimit"
	"pdfshare/internal/repository/postgres"
	"pdfshare/internal/service"
	"pdfshare/internal/storage"
	"pdfshare/internal/token"
)

const shutdownTimeout = 10 * time.Second

// @title PDF Share API
// @version 1.0
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New(os.Stderr, time.UTC)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logging.New(os.Stdout, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	objStore := newObjectStore(ctx, cfg.MinIO, log)

	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	shareMetrics, err := metrics.NewShareMetrics(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register share metrics")
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	docRepo := postgres.NewDocumentPostgres(db)
	shareRepo := postgres.NewSharePostgres(db)
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(shareMetrics),
		service.WithLimiter(limiter),
	}
	svcs := handlers.Services{
		Documents:    service.NewDocumentService(objStore, docRepo, opts...),
		Shares:       service.NewShareService(docRepo, shareRepo, token.NewRandomGenerator(), opts...),
		Access:       service.NewAccessService(docRepo, shareRepo, objStore, opts...),
		Verification: service.NewVerificationService(shareRepo, opts...),
		BaseURL:      cfg.BaseURL,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.Upload.MaxBytes,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get(middleware.MetricsPath, handlers.Metrics(reg))
	handlers.RegisterRoutes(app, db, svcs)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("base_url", cfg.BaseURL).Msg("server starting")
	if err := app.Listen(addr); err != nil {
		log.Error().Err(err).Msg("failed to start server")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}

// newObjectStore returns MinIO when an endpoint is configured and process memory otherwise.
func newObjectStore(ctx context.Context, cfg config.MinIOConfig, log zerolog.Logger) storage.Storage {
	if cfg.Endpoint == "" {
		log.Warn().Str("component", "storage").Msg("MINIO_ENDPOINT not set, documents are kept in memory")
		return storage.NewMemory()
	}
	s, err := storage.NewMinIO(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}
	return s
}

// newLimiter builds the Redis-backed verification limiter, or the no-op limiter
// when Redis or an attempt budget is not configured.
func newLimiter(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (ratelimit.Limiter, func()) {
	if cfg.Redis.Addr == "" || cfg.Verification.MaxAttempts <= 0 {
		return ratelimit.Noop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("redis_addr", cfg.Redis.Addr).Msg("failed to connect to redis")
	}

	l, err := ratelimit.NewRedis(client, "verify:", cfg.Verification.MaxAttempts, cfg.Verification.Window)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure verification limiter")
	}
	log.Info().
		Str("component", "ratelimit").
		Int("max_attempts", cfg.Verification.MaxAttempts).
		Dur("window", cfg.Verification.Window).
		Msg("verification limiter enabled")
	return l, func() { _ = client.Close() }
}
