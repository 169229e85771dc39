// Package suggest turns aggregate review statistics into prioritized,
// actionable suggestions and a phased implementation roadmap.
package suggest

import (
	"fmt"
	"math"
	"sort"

	"github.com/zombar/reviewinsights/internal/models"
)

const (
	// MaxSuggestions caps the ranked suggestion list
	MaxSuggestions = 8

	minKeywordCount       = 2 // keyword must appear more often than this
	categoryNegativeRatio = 0.3
	categoryCriticalRatio = 0.5
	categoryMinNegatives  = 3
	globalNegativeRatio   = 0.25
	maxFocusAreas         = 3
)

// Generate applies the rule table to the statistics, chart data and keyword
// list and returns at most MaxSuggestions ranked suggestions with a summary.
func Generate(stats models.Stats, chartData []models.CategorySentiment, words []models.WordCount) models.SuggestionAnalysis {
	var suggestions []models.Suggestion
	add := func(s models.Suggestion) {
		s.ID = fmt.Sprintf("suggestion-%d", len(suggestions)+1)
		suggestions = append(suggestions, s)
	}

	if stats.TotalReviews > 0 {
		for _, word := range words {
			if word.Sentiment != models.SentimentNegative || word.Count <= minKeywordCount {
				continue
			}
			rule, ok := matchKeywordRule(word.Text)
			if !ok {
				continue
			}
			frequency := float64(word.Count) / float64(stats.TotalReviews)
			add(rule.Build(word, frequency, math.Min(frequency*10, 1)))
		}
	}

	for _, point := range chartData {
		if s, ok := categoryHealthSuggestion(point); ok {
			add(s)
		}
	}

	if s, ok := globalHealthSuggestion(stats); ok {
		add(s)
	}

	ranked := rank(dedupe(suggestions))
	return models.SuggestionAnalysis{
		Suggestions: ranked,
		Summary:     summarize(ranked),
	}
}

// dedupe drops suggestions repeating an earlier (category, issue) pair
func dedupe(suggestions []models.Suggestion) []models.Suggestion {
	type key struct{ category, issue string }
	seen := make(map[key]bool, len(suggestions))

	unique := make([]models.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		k := key{s.Category, s.Issue}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, s)
	}
	return unique
}

// rank orders by priority weight then confidence, both descending, and truncates
func rank(suggestions []models.Suggestion) []models.Suggestion {
	sort.SliceStable(suggestions, func(i, j int) bool {
		wi, wj := suggestions[i].Priority.Weight(), suggestions[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return suggestions[i].Confidence > suggestions[j].Confidence
	})

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

func summarize(suggestions []models.Suggestion) models.SuggestionSummary {
	summary := models.SuggestionSummary{
		TotalIssues:   len(suggestions),
		KeyFocusAreas: []string{},
	}

	seen := make(map[string]bool)
	for _, s := range suggestions {
		if s.Priority == models.PriorityHigh {
			summary.HighPriorityCount++
		}
		if !seen[s.Category] && len(summary.KeyFocusAreas) < maxFocusAreas {
			summary.KeyFocusAreas = append(summary.KeyFocusAreas, s.Category)
		}
		seen[s.Category] = true
	}

	switch {
	case summary.HighPriorityCount > 3:
		summary.EstimatedImpact = "High"
		summary.ImpactDescription = "High - Significant improvement potential"
	case summary.HighPriorityCount > 1:
		summary.EstimatedImpact = "Medium"
		summary.ImpactDescription = "Medium - Moderate improvement expected"
	default:
		summary.EstimatedImpact = "Low"
		summary.ImpactDescription = "Low - Minor improvements possible"
	}

	return summary
}
