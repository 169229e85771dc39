package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zombar/reviewinsights/internal/analyzer"
	"github.com/zombar/reviewinsights/internal/api"
	"github.com/zombar/reviewinsights/internal/config"
	"github.com/zombar/reviewinsights/internal/metrics"
	"github.com/zombar/reviewinsights/internal/queue"
	"github.com/zombar/reviewinsights/internal/tracing"
	"github.com/zombar/reviewinsights/pkg/logging"
)

const metricsNamespace = "reviewinsights"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	port := flag.String("port", cfg.Port, "Server port (env: PORT)")
	flag.Parse()

	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("reviewinsights service initializing", "version", "1.0.0")

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() {
				if err := tp.Shutdown(context.Background()); err != nil {
					logger.Error("error shutting down tracer", "error", err)
				}
			}()
			logger.Info("tracing initialized successfully", "endpoint", cfg.OTLPEndpoint)
		}
	}

	businessMetrics := metrics.NewBusinessMetrics(metricsNamespace, prometheus.DefaultRegisterer)
	reviewAnalyzer := analyzer.New(
		analyzer.WithMinKeywordCount(cfg.MinKeywordCount),
		analyzer.WithLogger(logger),
	)

	// Background analysis needs Redis
	var jobQueue api.JobQueue
	var worker *queue.Worker
	if cfg.QueueEnabled() {
		queueClient := queue.NewClient(queue.ClientConfig{RedisAddr: cfg.RedisAddr})
		defer queueClient.Close()
		jobQueue = queueClient

		worker = queue.NewWorker(queue.WorkerConfig{
			RedisAddr:   cfg.RedisAddr,
			Concurrency: cfg.WorkerConcurrency,
			Logger:      logger,
		}, reviewAnalyzer, businessMetrics)

		go func() {
			if err := worker.Start(); err != nil {
				logger.Error("worker stopped", "error", err)
			}
		}()
	} else {
		logger.Info("REDIS_ADDR not set, background jobs disabled")
	}

	handler := newServerHandler(logger, reviewAnalyzer, jobQueue, businessMetrics, cfg)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("reviewinsights service starting",
			"port", *port,
			"queue_enabled", cfg.QueueEnabled(),
			"tracing_enabled", cfg.TracingEnabled,
			"min_keyword_count", cfg.MinKeywordCount,
			"max_upload_mb", cfg.MaxUploadMB,
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if worker != nil {
		worker.Shutdown()
	}

	logger.Info("server stopped")
}

// newServerHandler wraps the API with the middleware chain: HTTP logging -> tracing -> handlers
func newServerHandler(logger *slog.Logger, a *analyzer.Analyzer, q api.JobQueue, m *metrics.BusinessMetrics, cfg config.Config) http.Handler {
	apiHandler := api.NewHandler(a, q, m, api.Options{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Logger:         logger,
	})

	return logging.HTTPLoggingMiddleware(logger)(
		tracing.HTTPMiddleware(cfg.ServiceName)(apiHandler),
	)
}
