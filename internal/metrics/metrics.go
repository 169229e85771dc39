// Package metrics defines the Prometheus business metrics of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zombar/reviewinsights/internal/models"
)

// BusinessMetrics tracks pipeline runs, ingestion and background jobs
type BusinessMetrics struct {
	ReviewsAnalyzed     *prometheus.CounterVec
	AnalysisDuration    *prometheus.HistogramVec
	SuggestionsProduced *prometheus.CounterVec
	KeywordsExtracted   prometheus.Histogram
	IngestionFailures   *prometheus.CounterVec
	JobsEnqueued        prometheus.Counter
}

// NewBusinessMetrics registers the metrics with reg under namespace
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	factory := promauto.With(reg)

	return &BusinessMetrics{
		ReviewsAnalyzed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_analyzed_total",
			Help:      "Reviews analyzed, by sentiment label",
		}, []string{"sentiment"}),
		AnalysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent running the analysis pipeline",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		SuggestionsProduced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Suggestions produced, by priority",
		}, []string{"priority"}),
		KeywordsExtracted: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "keywords_extracted",
			Help:      "Number of keywords per analysis",
			Buckets:   []float64{0, 5, 10, 20, 30, 40, 50},
		}),
		IngestionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestion_failures_total",
			Help:      "Uploads that could not be turned into reviews",
		}, []string{"source"}),
		JobsEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_enqueued_total",
			Help:      "Background analysis jobs enqueued",
		}),
	}
}

// ObserveReport records one completed pipeline run. source is e.g. "api", "upload" or "worker".
func (m *BusinessMetrics) ObserveReport(source string, report models.Report, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.ReviewsAnalyzed.WithLabelValues(string(models.SentimentPositive)).Add(float64(report.Stats.PositiveReviews))
	m.ReviewsAnalyzed.WithLabelValues(string(models.SentimentNegative)).Add(float64(report.Stats.NegativeReviews))
	m.ReviewsAnalyzed.WithLabelValues(string(models.SentimentNeutral)).Add(float64(report.Stats.NeutralReviews))

	for _, s := range report.Suggestions.Suggestions {
		m.SuggestionsProduced.WithLabelValues(string(s.Priority)).Inc()
	}

	m.KeywordsExtracted.Observe(float64(len(report.Keywords)))
	m.AnalysisDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// IngestionFailed counts a rejected upload
func (m *BusinessMetrics) IngestionFailed(source string) {
	if m == nil {
		return
	}
	m.IngestionFailures.WithLabelValues(source).Inc()
}

// JobEnqueued counts a queued background analysis
func (m *BusinessMetrics) JobEnqueued() {
	if m == nil {
		return
	}
	m.JobsEnqueued.Inc()
}
