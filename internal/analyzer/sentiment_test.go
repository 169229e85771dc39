package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zombar/reviewinsights/internal/models"
)

func TestScoreSentiment(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		label      models.Sentiment
		score      float64
		confidence float64
	}{
		{"empty", "", models.SentimentNeutral, 0, 0},
		{"whitespace", "   \n\t", models.SentimentNeutral, 0, 0},
		{"no lexicon words", "The package arrived on Tuesday", models.SentimentNeutral, 0, 0},
		{"mild positive", "This is good", models.SentimentPositive, 1, 0.2},
		{"strong negative clamps", "terrible", models.SentimentNegative, -1, 0.2},
		{"punctuation stripped", "Good!!!", models.SentimentPositive, 1, 0.2},
		{"negation flips", "not good", models.SentimentNegative, -0.8, 0.2},
		{"mixed cancels", "good but slow", models.SentimentNeutral, 0, 0.4},
		{"intensified mixed", "extremely good but slow", models.SentimentPositive, 0.5, 0.4},
		{"intensified negation", "not very good", models.SentimentNegative, -1, 0.2},
		{"uppercase", "GREAT", models.SentimentPositive, 1, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreSentiment(tt.text)
			assert.Equal(t, tt.label, result.Label)
			assert.InDelta(t, tt.score, result.Score, 1e-9)
			assert.InDelta(t, tt.confidence, result.Confidence, 1e-9)
		})
	}
}

func TestScoreSentiment_NegationWindow(t *testing.T) {
	// "not" sits outside the three-token window
	result := ScoreSentiment("not the product wanted it is good")
	assert.Equal(t, models.SentimentPositive, result.Label)

	// within three tokens
	result = ScoreSentiment("never was it good")
	assert.Equal(t, models.SentimentNegative, result.Label)
	assert.InDelta(t, -0.8, result.Score, 1e-9)
}

func TestScoreSentiment_Intensifier(t *testing.T) {
	// a lone saturating word clamps to 1 either way
	plain := ScoreSentiment("good")
	intensified := ScoreSentiment("extremely good")
	assert.GreaterOrEqual(t, intensified.Score, plain.Score)

	// mixed text stays inside the clamp, so the boost is visible
	plain = ScoreSentiment("good but slow")
	intensified = ScoreSentiment("extremely good but slow")
	assert.Greater(t, intensified.Score, plain.Score)
	assert.InDelta(t, 0.0, plain.Score, 1e-9)
	assert.InDelta(t, 0.5, intensified.Score, 1e-9)

	dampened := ScoreSentiment("slightly good but slow")
	assert.Less(t, dampened.Score, ScoreSentiment("good but slow").Score+1e-9)
	assert.InDelta(t, -0.15, dampened.Score, 1e-9)
}

func TestScoreSentiment_ConfidenceSaturates(t *testing.T) {
	result := ScoreSentiment("good great nice fine happy excellent")
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, models.SentimentPositive, result.Label)
}

func TestScoreSentiment_Bounds(t *testing.T) {
	texts := []string{
		"absolutely terrible awful horrible",
		"extremely excellent amazing",
		"not bad not bad not bad",
		"ok",
	}
	for _, text := range texts {
		result := ScoreSentiment(text)
		assert.GreaterOrEqual(t, result.Score, -1.0, text)
		assert.LessOrEqual(t, result.Score, 1.0, text)
		assert.GreaterOrEqual(t, result.Confidence, 0.0, text)
		assert.LessOrEqual(t, result.Confidence, 1.0, text)
	}
}

func TestLabelForScore(t *testing.T) {
	assert.Equal(t, models.SentimentNeutral, labelForScore(0.3))
	assert.Equal(t, models.SentimentNeutral, labelForScore(-0.3))
	assert.Equal(t, models.SentimentPositive, labelForScore(0.31))
	assert.Equal(t, models.SentimentNegative, labelForScore(-0.31))
}

func BenchmarkScoreSentiment(b *testing.B) {
	text := "The delivery was extremely slow but the staff were not unhelpful and the product quality is great"
	for i := 0; i < b.N; i++ {
		ScoreSentiment(text)
	}
}
