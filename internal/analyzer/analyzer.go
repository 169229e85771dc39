package analyzer

import (
	"log/slog"
	"strings"
	"time"

	"github.com/zombar/reviewinsights/internal/models"
	"github.com/zombar/reviewinsights/internal/suggest"
)

// Analyzer runs the review analysis pipeline
type Analyzer struct {
	minKeywordCount int
	logger          *slog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithMinKeywordCount sets the default keyword threshold used by Analyze
func WithMinKeywordCount(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.minKeywordCount = n
		}
	}
}

// WithLogger sets the logger used for per-run summaries
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates a new Analyzer
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		minKeywordCount: DefaultMinKeywordCount,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MinKeywordCount returns the configured keyword threshold
func (a *Analyzer) MinKeywordCount() int {
	return a.minKeywordCount
}

// Analyze runs the full pipeline with the configured keyword threshold
func (a *Analyzer) Analyze(reviews []models.Review) models.Report {
	return a.AnalyzeWithMinCount(reviews, a.minKeywordCount)
}

// AnalyzeWithMinCount runs the full pipeline. Records with blank text are
// dropped, every remaining record is scored exactly once, and the input
// slice is left untouched.
func (a *Analyzer) AnalyzeWithMinCount(reviews []models.Review, minCount int) models.Report {
	start := time.Now()
	if minCount <= 0 {
		minCount = a.minKeywordCount
	}

	scored := make([]models.Review, 0, len(reviews))
	labels := make([]models.Sentiment, 0, len(reviews))
	for _, review := range reviews {
		if strings.TrimSpace(review.Text) == "" {
			continue
		}
		result := ScoreSentiment(review.Text)
		review.Sentiment = result.Label
		review.Confidence = result.Confidence
		scored = append(scored, review)
		labels = append(labels, result.Label)
	}

	stats, chart := aggregateLabels(scored, labels)
	keywords, categoryKeywords := ExtractKeywords(scored, minCount)
	words := LegacyWords(keywords, LegacyWordLimit)
	suggestions := suggest.Generate(stats, chart, words)

	report := models.Report{
		Reviews:          scored,
		Stats:            stats,
		ChartData:        chart,
		Words:            words,
		Keywords:         keywords,
		CategoryKeywords: categoryKeywords,
		Suggestions:      suggestions,
		Roadmap:          suggest.BuildRoadmap(suggestions.Suggestions),
	}

	a.logger.Info("review analysis completed",
		"input_records", len(reviews),
		"reviews", stats.TotalReviews,
		"positive", stats.PositiveReviews,
		"negative", stats.NegativeReviews,
		"neutral", stats.NeutralReviews,
		"keywords", len(keywords),
		"suggestions", len(suggestions.Suggestions),
		"roadmap_phases", len(report.Roadmap.Phases),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report
}
