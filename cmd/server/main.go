package main // Entry point package

import (
	"context"   // Shutdown deadlines
	"net/http"  // Metrics listener
	"os"        // Exit codes
	"os/signal" // SIGINT / SIGTERM
	"syscall"   // SIGTERM constant
	"time"      // Timeouts

	"github.com/cockroachdb/errors" // Error wrapping
	"github.com/labstack/echo/v4"   // Echo web framework
	"go.uber.org/zap"               // Structured logging

	"github.com/iliyamo/bfhl-service/internal/config"     // Environment config loader
	"github.com/iliyamo/bfhl-service/internal/handler"    // HTTP handlers
	"github.com/iliyamo/bfhl-service/internal/logging"    // Logger construction
	"github.com/iliyamo/bfhl-service/internal/metrics"    // Prometheus registry
	"github.com/iliyamo/bfhl-service/internal/middleware" // Response cache
	"github.com/iliyamo/bfhl-service/internal/queue"      // Computation events
	"github.com/iliyamo/bfhl-service/internal/router"     // Echo setup
	"github.com/iliyamo/bfhl-service/internal/service"    // Parser and dispatcher
	"github.com/iliyamo/bfhl-service/internal/telemetry"  // Tracing
)

const serviceName = "bfhl-service"

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		zap.S().Errorw("server exited", "error", err)
		_ = zap.L().Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load() // Load environment config
	if err != nil {
		// the logger is not built yet; zap's default logger is a no-op
		logger, _ := zap.NewProduction()
		zap.ReplaceGlobals(logger)
		return err
	}

	logger, err := logging.New(cfg.Env) // Build logger for this environment
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, telemetry.Config{ // Tracing, no-op unless OTEL_ENABLED
		Enabled:        cfg.Telemetry.Enabled,
		Debug:          cfg.Telemetry.Debug,
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		return errors.Wrap(err, "init telemetry")
	}

	m := metrics.New()

	opts := []service.DispatcherOption{
		service.WithLogger(log.With("module", "dispatcher")),
		service.WithTracer(tel.Tracer()),
		service.WithMetrics(m),
	}

	var publisher *queue.Publisher
	if cfg.Events.Enabled {
		publisher = queue.NewPublisher(cfg.Events.URL, cfg.Events.Queue)
		opts = append(opts, service.WithEvents(publisher, cfg.Events.PublishTimeout))
		log.Infow("computation events enabled", "queue", cfg.Events.Queue)
	}
	if cfg.Events.Consume {
		consumerLog := log.With("module", "consumer")
		go func() {
			if err := queue.StartConsumer(ctx, cfg.Events.URL, cfg.Events.Queue, consumerLog); err != nil {
				consumerLog.Warnw("consumer stopped", "error", err)
			}
		}()
	}

	var cache echo.MiddlewareFunc
	if cfg.Cache.Enabled {
		rdb := config.NewRedisClient(ctx, cfg.Redis)
		if rdb == nil {
			log.Warnw("redis unreachable, response cache disabled", "addr", cfg.Redis.Address())
		} else {
			defer func() { _ = rdb.Close() }()
			cache = middleware.NewRedisCache(cfg.Cache, rdb)
			log.Infow("response cache enabled", "addr", cfg.Redis.Address(), "ttl", cfg.Cache.TTL)
		}
	}

	h := handler.New(
		cfg.OfficialEmail,
		service.NewParser(),
		service.NewDispatcher(opts...),
		m,
		log,
	)
	e := router.New(router.Options{
		Handler: h,
		Logger:    log,
		Metrics:   m,
		Cache:     cache,
		BodyLimit: cfg.BodyLimit,
	})

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Infow("metrics listening", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("metrics server failed", "error", err)
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", cfg.Addr(), "env", cfg.Env, "version", version)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return errors.Wrap(err, "start server")
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("http shutdown", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("metrics shutdown", "error", err)
		}
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Warnw("close publisher", "error", err)
		}
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warnw("telemetry shutdown", "error", err)
	}
	log.Info("server stopped")
	return nil
}
