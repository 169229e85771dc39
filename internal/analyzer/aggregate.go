package analyzer

import (
	"strings"

	"github.com/zombar/reviewinsights/internal/models"
)

// Aggregate scores every review and returns the sentiment summary plus
// per-category chart data. A review may fall in zero, one or many categories.
func Aggregate(reviews []models.Review) (models.Stats, []models.CategorySentiment) {
	labels := make([]models.Sentiment, len(reviews))
	for i, review := range reviews {
		labels[i] = ScoreSentiment(review.Text).Label
	}
	return aggregateLabels(reviews, labels)
}

// aggregateLabels tallies precomputed labels, labels[i] belonging to reviews[i]
func aggregateLabels(reviews []models.Review, labels []models.Sentiment) (models.Stats, []models.CategorySentiment) {
	stats := models.Stats{TotalReviews: len(reviews)}

	ratingSum := 0.0
	rated := 0
	for i, review := range reviews {
		switch labels[i] {
		case models.SentimentPositive:
			stats.PositiveReviews++
		case models.SentimentNegative:
			stats.NegativeReviews++
		default:
			stats.NeutralReviews++
		}

		if review.Rating != nil {
			ratingSum += *review.Rating
			rated++
		}
	}
	if rated > 0 {
		stats.AverageRating = ratingSum / float64(rated)
	}

	lowered := make([]string, len(reviews))
	for i, review := range reviews {
		lowered[i] = strings.ToLower(review.Text)
	}

	chart := make([]models.CategorySentiment, 0, len(chartTaxonomy))
	for _, entry := range chartTaxonomy {
		point := models.CategorySentiment{Category: entry.Name}
		for i, text := range lowered {
			if !containsAny(text, entry.Keywords) {
				continue
			}
			switch labels[i] {
			case models.SentimentPositive:
				point.Positive++
			case models.SentimentNegative:
				point.Negative++
			default:
				point.Neutral++
			}
		}
		chart = append(chart, point)
	}

	return stats, chart
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
