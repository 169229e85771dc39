package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/zombar/reviewinsights/internal/analyzer"
	"github.com/zombar/reviewinsights/internal/metrics"
)

// retryDelays is the backoff schedule for failed analysis tasks: 10s, 30s, 1m
var retryDelays = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	1 * time.Minute,
}

// queuePriorities maps queue names to their weight
var queuePriorities = map[string]int{
	QueueAnalysis: 1,
}

// Worker wraps the Asynq server for processing tasks
type Worker struct {
	server          *asynq.Server
	mux             *asynq.ServeMux
	analyzer        *analyzer.Analyzer
	concurrency     int
	logger          *slog.Logger
	businessMetrics *metrics.BusinessMetrics
}

// WorkerConfig contains configuration for the queue worker
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
	Logger      *slog.Logger
}

// NewWorker creates a new queue worker. m may be nil.
func NewWorker(cfg WorkerConfig, a *analyzer.Analyzer, m *metrics.BusinessMetrics) *Worker {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serverCfg := asynq.Config{
		Concurrency:    cfg.Concurrency,
		Queues:         queuePriorities,
		RetryDelayFunc: retryDelay,

		// Graceful shutdown timeout
		ShutdownTimeout: 30 * time.Second,

		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			taskID, _ := asynq.GetTaskID(ctx)

			logger.Error("task processing error",
				"task_type", task.Type(),
				"job_id", taskID,
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := &Worker{
		server:          asynq.NewServer(redisOpt, serverCfg),
		mux:             asynq.NewServeMux(),
		analyzer:        a,
		concurrency:     cfg.Concurrency,
		logger:          logger,
		businessMetrics: m,
	}

	w.registerHandlers()

	return w
}

// retryDelay returns the wait before retry n, holding at the last step
func retryDelay(n int, _ error, _ *asynq.Task) time.Duration {
	if n < 0 {
		n = 0
	}
	if n < len(retryDelays) {
		return retryDelays[n]
	}
	return retryDelays[len(retryDelays)-1]
}

// registerHandlers registers all task handlers with the worker
func (w *Worker) registerHandlers() {
	w.mux.HandleFunc(TypeAnalyzeReviews, w.handleAnalyzeReviews)
}

// Start starts the worker to begin processing tasks
func (w *Worker) Start() error {
	w.logger.Info("starting asynq worker",
		"concurrency", w.concurrency,
		"queues", queuePriorities,
	)

	// Run is blocking
	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the worker
func (w *Worker) Shutdown() {
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
}
