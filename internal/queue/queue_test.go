package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/reviewinsights/internal/models"
)

func TestRetryDelay(t *testing.T) {
	task := asynq.NewTask(TypeAnalyzeReviews, nil)
	testErr := errors.New("boom")

	tests := []struct {
		retry    int
		expected time.Duration
	}{
		{0, 10 * time.Second},
		{1, 30 * time.Second},
		{2, 1 * time.Minute},
		{3, 1 * time.Minute},
		{25, 1 * time.Minute},
		{-1, 10 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, retryDelay(tt.retry, testErr, task), "retry %d", tt.retry)
	}
}

func TestQueuePriorities(t *testing.T) {
	assert.Equal(t, map[string]int{"analysis": 1}, queuePriorities)
}

func TestTaskTypeConstants(t *testing.T) {
	assert.Equal(t, "reviewinsights:analyze_reviews", TypeAnalyzeReviews)
	assert.Equal(t, "analysis", QueueAnalysis)
}

func TestNewAnalyzeReviewsTask(t *testing.T) {
	reviews := []models.Review{{ID: "review-0", Text: "slow delivery"}}

	before := time.Now().UnixNano()
	task, opts, err := NewAnalyzeReviewsTask(context.Background(), "job-1", reviews, 4)
	require.NoError(t, err)

	assert.Equal(t, TypeAnalyzeReviews, task.Type())

	var payload AnalyzeReviewsPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "job-1", payload.JobID)
	assert.Equal(t, reviews, payload.Reviews)
	assert.Equal(t, 4, payload.MinCount)
	assert.Empty(t, payload.TraceID, "no span in context")
	assert.Empty(t, payload.SpanID)
	assert.GreaterOrEqual(t, payload.EnqueuedAt, before)

	types := make(map[asynq.OptionType]any)
	for _, opt := range opts {
		types[opt.Type()] = opt.Value()
	}
	assert.Equal(t, "job-1", types[asynq.TaskIDOpt])
	assert.Equal(t, QueueAnalysis, types[asynq.QueueOpt])
	assert.Equal(t, taskMaxRetry, types[asynq.MaxRetryOpt])
	assert.Equal(t, taskTimeout, types[asynq.TimeoutOpt])
	assert.Equal(t, taskRetention, types[asynq.RetentionOpt])
}

func TestJobStatusFromInfo(t *testing.T) {
	report := models.Report{Stats: models.Stats{TotalReviews: 2, NegativeReviews: 1}}
	result, err := json.Marshal(report)
	require.NoError(t, err)

	completedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("completed", func(t *testing.T) {
		status, err := jobStatusFromInfo(&asynq.TaskInfo{
			ID:          "job-1",
			State:       asynq.TaskStateCompleted,
			MaxRetry:    3,
			CompletedAt: completedAt,
			Result:      result,
		})
		require.NoError(t, err)
		assert.Equal(t, "completed", status.State)
		require.NotNil(t, status.Report)
		assert.Equal(t, 2, status.Report.Stats.TotalReviews)
		require.NotNil(t, status.CompletedAt)
		assert.True(t, completedAt.Equal(*status.CompletedAt))
	})

	t.Run("retrying", func(t *testing.T) {
		status, err := jobStatusFromInfo(&asynq.TaskInfo{
			ID:       "job-2",
			State:    asynq.TaskStateRetry,
			Retried:  1,
			MaxRetry: 3,
			LastErr:  "redis unavailable",
			Result:   result,
		})
		require.NoError(t, err)
		assert.Equal(t, "retry", status.State)
		assert.Equal(t, 1, status.Retried)
		assert.Equal(t, "redis unavailable", status.LastError)
		assert.Nil(t, status.Report, "reports are only read from completed tasks")
		assert.Nil(t, status.CompletedAt)
	})

	t.Run("corrupt result", func(t *testing.T) {
		_, err := jobStatusFromInfo(&asynq.TaskInfo{
			ID:     "job-3",
			State:  asynq.TaskStateCompleted,
			Result: []byte("{not json"),
		})
		assert.Error(t, err)
	})
}
