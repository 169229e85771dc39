package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/reviewinsights/internal/models"
	"github.com/zombar/reviewinsights/internal/tracing"
)

// Task type and queue names
const (
	TypeAnalyzeReviews = "reviewinsights:analyze_reviews"
	QueueAnalysis      = "analysis"
)

const (
	taskMaxRetry  = 3
	taskTimeout   = 5 * time.Minute
	taskRetention = 24 * time.Hour
)

// ErrJobNotFound is returned when no task exists for a job id
var ErrJobNotFound = errors.New("job not found")

// AnalyzeReviewsPayload is the payload of a background analysis task
type AnalyzeReviewsPayload struct {
	JobID    string          `json:"job_id"`
	Reviews  []models.Review `json:"reviews"`
	MinCount int             `json:"min_count,omitempty"`
	// Tracing and timing fields
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

// JobStatus describes a background analysis as seen by API clients
type JobStatus struct {
	JobID       string         `json:"job_id"`
	State       string         `json:"status"`
	Retried     int            `json:"retried"`
	MaxRetry    int            `json:"max_retry"`
	LastError   string         `json:"last_error,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Report      *models.Report `json:"report,omitempty"`
}

// Client wraps the Asynq client and inspector
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// ClientConfig contains configuration for the queue client
type ClientConfig struct {
	RedisAddr string
}

// NewClient creates a new queue client
func NewClient(cfg ClientConfig) *Client {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
	}

	return &Client{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
	}
}

// NewAnalyzeReviewsTask builds the task and its options. The job id doubles
// as the task id so a job cannot be enqueued twice.
func NewAnalyzeReviewsTask(ctx context.Context, jobID string, reviews []models.Review, minCount int) (*asynq.Task, []asynq.Option, error) {
	payload := AnalyzeReviewsPayload{
		JobID:      jobID,
		Reviews:    reviews,
		MinCount:   minCount,
		EnqueuedAt: time.Now().UnixNano(),
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		payload.TraceID = tracing.TraceIDFromContext(ctx)
		payload.SpanID = tracing.SpanIDFromContext(ctx)

		span.AddEvent("task_enqueued", trace.WithAttributes(
			attribute.String("task.type", TypeAnalyzeReviews),
			attribute.String("job.id", jobID),
			attribute.Int("reviews.count", len(reviews)),
			attribute.Int64("enqueued_at", payload.EnqueuedAt),
		))
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	opts := []asynq.Option{
		asynq.TaskID(jobID),
		asynq.Queue(QueueAnalysis),
		asynq.MaxRetry(taskMaxRetry),
		asynq.Timeout(taskTimeout),
		asynq.Retention(taskRetention),
	}

	return asynq.NewTask(TypeAnalyzeReviews, payloadBytes), opts, nil
}

// EnqueueAnalyzeReviews enqueues a background analysis and returns the task id
func (c *Client) EnqueueAnalyzeReviews(ctx context.Context, jobID string, reviews []models.Review, minCount int) (string, error) {
	task, opts, err := NewAnalyzeReviewsTask(ctx, jobID, reviews, minCount)
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue analyze reviews task: %w", err)
	}

	return info.ID, nil
}

// JobStatus looks up a job in the analysis queue
func (c *Client) JobStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	info, err := c.inspector.GetTaskInfo(QueueAnalysis, jobID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to inspect job %s: %w", jobID, err)
	}
	return jobStatusFromInfo(info)
}

// jobStatusFromInfo converts task info, decoding the stored report of completed tasks
func jobStatusFromInfo(info *asynq.TaskInfo) (*JobStatus, error) {
	status := &JobStatus{
		JobID:     info.ID,
		State:     info.State.String(),
		Retried:   info.Retried,
		MaxRetry:  info.MaxRetry,
		LastError: info.LastErr,
	}

	if info.State != asynq.TaskStateCompleted {
		return status, nil
	}

	if !info.CompletedAt.IsZero() {
		completedAt := info.CompletedAt
		status.CompletedAt = &completedAt
	}

	if len(info.Result) > 0 {
		var report models.Report
		if err := json.Unmarshal(info.Result, &report); err != nil {
			return nil, fmt.Errorf("failed to decode report for job %s: %w", info.ID, err)
		}
		status.Report = &report
	}

	return status, nil
}

// Close closes the client and inspector connections
func (c *Client) Close() error {
	return errors.Join(c.client.Close(), c.inspector.Close())
}
