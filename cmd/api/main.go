package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BruksfildServices01/clinic-recall/internal/audit"
	"github.com/BruksfildServices01/clinic-recall/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-recall/internal/db"
	"github.com/BruksfildServices01/clinic-recall/internal/infra/idempotency"
	"github.com/BruksfildServices01/clinic-recall/internal/infra/storage"
	"github.com/BruksfildServices01/clinic-recall/internal/realtime"
	"github.com/BruksfildServices01/clinic-recall/internal/routes"
	"github.com/BruksfildServices01/clinic-recall/internal/telemetry"
	ucNotification "github.com/BruksfildServices01/clinic-recall/internal/usecase/notification"
	ucRecall "github.com/BruksfildServices01/clinic-recall/internal/usecase/recall"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code; deferred flushes happen before main
// exits.
func run() int {
	cfg := config.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "clinic-api").Logger()
	if cfg.IsDev() {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 1
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			log.Error().Err(err).Msg("sentry init")
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTelemetry := telemetry.Setup(telemetry.Config{
		ServiceName: "clinic-api",
		Endpoint:    cfg.OTelEndpoint,
		Insecure:    cfg.OTelInsecure,
	}, log)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	db := dbpkg.NewDB(cfg, log)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer auditDispatcher.Close()

	// ======================================================
	// REALTIME
	// ======================================================
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(log)
	go realtime.NewListener(cfg.DBUrl, hub, log).Run(ctx)

	// ======================================================
	// CHECK-IN GUARD
	// ======================================================
	var guard ucNotification.Guard = idempotency.NewMemoryGuard()
	if cfg.RedisURL != "" {
		rg, err := idempotency.NewRedisGuard(cfg.RedisURL)
		if err != nil {
			log.Error().Err(err).Msg("redis")
			return 1
		}
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rg.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Msg("redis not reachable yet")
		}
		cancel()
		defer rg.Close()
		guard = rg
	}

	// ======================================================
	// RECALL EXPORT
	// ======================================================
	var uploader ucRecall.Uploader
	if cfg.ExportEnabled() {
		uploader = storage.NewS3Storage(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.AWSAccessKeyID,
			SecretKey: cfg.AWSSecretAccessKey,
		})
	}

	// ======================================================
	// HTTP
	// ======================================================
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Audit:    auditDispatcher,
		Hub:      hub,
		Guard:    guard,
		Uploader: uploader,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, "clinic-api"),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if err := serve(ctx, server, 10*time.Second, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}
