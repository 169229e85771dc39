package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/reviewinsights/internal/tracing"
)

// handleAnalyzeReviews runs the pipeline for a queued job and stores the report as the task result
func (w *Worker) handleAnalyzeReviews(ctx context.Context, t *asynq.Task) error {
	var payload AnalyzeReviewsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		// a malformed payload will never succeed
		return fmt.Errorf("invalid task payload: %v: %w", err, asynq.SkipRetry)
	}

	var queueWaitTime time.Duration
	if payload.EnqueuedAt > 0 {
		queueWaitTime = time.Since(time.Unix(0, payload.EnqueuedAt))
	}

	ctx = tracing.RemoteContext(ctx, payload.TraceID, payload.SpanID)
	ctx, span := tracing.Tracer().Start(ctx, "asynq.task.process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", TypeAnalyzeReviews),
			attribute.String("job.id", payload.JobID),
			attribute.Int("reviews.count", len(payload.Reviews)),
			attribute.Float64("queue.wait_time_seconds", queueWaitTime.Seconds()),
		),
	)
	defer span.End()

	w.logger.Info("processing analysis job",
		"job_id", payload.JobID,
		"reviews", len(payload.Reviews),
		"min_count", payload.MinCount,
		"queue_wait_seconds", queueWaitTime.Seconds(),
		"trace_id", tracing.TraceIDFromContext(ctx),
	)

	minCount := payload.MinCount
	if minCount <= 0 {
		minCount = w.analyzer.MinKeywordCount()
	}

	start := time.Now()
	report := w.analyzer.AnalyzeWithMinCount(payload.Reviews, minCount)
	elapsed := time.Since(start)
	w.businessMetrics.ObserveReport("worker", report, elapsed)

	span.SetAttributes(
		attribute.Int("stats.total_reviews", report.Stats.TotalReviews),
		attribute.Int("suggestions.count", len(report.Suggestions.Suggestions)),
	)

	result, err := json.Marshal(report)
	if err != nil {
		tracing.RecordError(ctx, err)
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if rw := t.ResultWriter(); rw != nil {
		if _, err := rw.Write(result); err != nil {
			tracing.RecordError(ctx, err)
			return fmt.Errorf("failed to store report: %w", err)
		}
	}

	w.logger.Info("analysis job completed",
		"job_id", payload.JobID,
		"duration_ms", elapsed.Milliseconds(),
		"suggestions", len(report.Suggestions.Suggestions),
	)

	return nil
}
