package analyzer

import (
	"math"
	"strings"

	"github.com/zombar/reviewinsights/internal/models"
)

const (
	// negationWindow is how many preceding tokens are searched for a negation marker
	negationWindow = 3
	// negationFactor flips polarity and dampens magnitude
	negationFactor = -0.8
	// confidenceSaturation is the number of matched words that yields full confidence
	confidenceSaturation = 5.0
	labelThreshold       = 0.3
)

// sentimentTokens lowercases text, strips punctuation and splits on whitespace
func sentimentTokens(text string) []string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, "")
	return strings.Fields(text)
}

// ScoreSentiment scores a single text with the weighted lexicon.
// It never fails: text without any lexicon word is neutral with zero confidence.
func ScoreSentiment(text string) models.SentimentResult {
	tokens := sentimentTokens(text)

	total := 0.0
	matched := 0
	for i, token := range tokens {
		weight := sentimentWeights[token]
		if weight == 0 {
			continue
		}

		if i > 0 {
			if multiplier, ok := intensifiers[tokens[i-1]]; ok {
				weight *= multiplier
			}
		}

		if isNegated(tokens, i) {
			weight *= negationFactor
		}

		total += weight
		matched++
	}

	score := 0.0
	if matched > 0 {
		score = total / float64(matched)
	}

	return models.SentimentResult{
		Label:      labelForScore(score),
		Confidence: math.Min(float64(matched)/confidenceSaturation, 1),
		Score:      math.Max(-1, math.Min(1, score)),
	}
}

// isNegated reports whether a negation marker precedes tokens[i] within the window
func isNegated(tokens []string, i int) bool {
	for j := max(0, i-negationWindow); j < i; j++ {
		if negationWords[tokens[j]] {
			return true
		}
	}
	return false
}

func labelForScore(score float64) models.Sentiment {
	switch {
	case score > labelThreshold:
		return models.SentimentPositive
	case score < -labelThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
