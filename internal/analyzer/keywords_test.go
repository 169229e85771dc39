package analyzer

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/reviewinsights/internal/models"
)

func labeled(text string, sentiment models.Sentiment) models.Review {
	return models.Review{Text: text, Sentiment: sentiment}
}

func keywordTexts(keywords []models.Keyword) []string {
	texts := make([]string, len(keywords))
	for i, k := range keywords {
		texts[i] = k.Text
	}
	return texts
}

func TestKeywordTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"stop words and short words removed", "The delivery was SLOW, very slow!", []string{"delivery", "slow", "slow"}},
		{"punctuation splits words", "well-made,sturdy", []string{"made", "sturdy"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, keywordTokens(tt.input))
		})
	}
}

func TestNGrams(t *testing.T) {
	tokens := []string{"box", "arrived", "damaged"}

	assert.Equal(t, []string{"arrived", "damaged"}, nGrams(tokens, 1))
	assert.Equal(t, []string{"box arrived", "arrived damaged"}, nGrams(tokens, 2))
	assert.Equal(t, []string{"box arrived damaged"}, nGrams(tokens, 3))
	assert.Empty(t, nGrams(tokens, 4))
}

func TestContextSnippet(t *testing.T) {
	assert.Equal(t, "short...", contextSnippet("short"))

	long := strings.Repeat("é", 150)
	snippet := contextSnippet(long)
	assert.Equal(t, strings.Repeat("é", 100)+"...", snippet)
}

func TestDominantSentiment(t *testing.T) {
	tests := []struct {
		name     string
		labels   []models.Sentiment
		expected models.Sentiment
	}{
		{"majority", []models.Sentiment{"positive", "negative", "negative"}, models.SentimentNegative},
		{"tie goes to first seen", []models.Sentiment{"negative", "positive", "positive", "negative"}, models.SentimentNegative},
		{"tie goes to first seen reversed", []models.Sentiment{"positive", "negative"}, models.SentimentPositive},
		{"empty", nil, models.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, dominantSentiment(tt.labels))
		})
	}
}

func TestCategorizeKeyword(t *testing.T) {
	tests := []struct {
		phrase   string
		expected []string
	}{
		{"slow delivery", []string{"Delivery & Shipping"}},
		{"deliver", []string{"Delivery & Shipping"}},
		{"rude", []string{"Customer Service"}},
		{"weather", []string{"General"}},
		{"cheap", []string{"Product Quality", "Pricing & Value"}},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			assert.Equal(t, tt.expected, categorizeKeyword(tt.phrase))
		})
	}
}

func TestCorpusTFIDF(t *testing.T) {
	reviews := []models.Review{
		{Text: "good product"},
		{Text: "bad service"},
		{Text: "good service"},
	}
	c := newCorpus(reviews)

	assert.Equal(t, 2, c.documentFrequency("good"))
	assert.Equal(t, 1, c.documentFrequency("product"))
	assert.InDelta(t, 0.5*math.Log(3.0/2.0), c.tfidf("product", 0, reviews[0].Text), 1e-9)

	// IDF is not clamped so a term in every document scores negative
	everywhere := []models.Review{{Text: "fast"}, {Text: "fast ship"}}
	c = newCorpus(everywhere)
	assert.Less(t, c.tfidf("fast", 0, "fast"), 0.0)
}

func fastDeliveryCorpus() []models.Review {
	return []models.Review{
		labeled("Fast delivery, great seller", models.SentimentPositive),
		labeled("Fast delivery and nice box", models.SentimentPositive),
		labeled("Fast delivery but the item was broken", models.SentimentNegative),
		labeled("Fast delivery as expected", models.SentimentNeutral),
	}
}

func TestExtractKeywords(t *testing.T) {
	keywords, buckets := ExtractKeywords(fastDeliveryCorpus(), 3)

	require.Len(t, keywords, 3)
	assert.ElementsMatch(t, []string{"fast", "delivery", "fast delivery"}, keywordTexts(keywords))

	for _, k := range keywords {
		assert.Equal(t, 4, k.Count, k.Text)
		assert.Equal(t, models.SentimentPositive, k.Sentiment, k.Text)
		assert.Len(t, k.Contexts, maxContexts, k.Text)
		assert.Equal(t, []string{"Delivery & Shipping"}, k.Categories, k.Text)
		assert.Less(t, k.TFIDF, 0.0, k.Text)
	}

	for i := 1; i < len(keywords); i++ {
		assert.GreaterOrEqual(t, keywords[i-1].Weight(), keywords[i].Weight())
	}

	require.Contains(t, buckets, "Delivery & Shipping")
	assert.Len(t, buckets["Delivery & Shipping"].Positive, 3)
	assert.Empty(t, buckets["Delivery & Shipping"].Negative)

	for _, name := range append(KeywordCategories(), generalCategory) {
		require.Contains(t, buckets, name)
		assert.NotNil(t, buckets[name].Positive)
		assert.NotNil(t, buckets[name].Negative)
		assert.NotNil(t, buckets[name].Neutral)
	}
}

func TestExtractKeywords_MinCount(t *testing.T) {
	keywords, _ := ExtractKeywords(fastDeliveryCorpus(), 5)
	assert.NotNil(t, keywords)
	assert.Empty(t, keywords)

	keywords, _ = ExtractKeywords(fastDeliveryCorpus(), 1)
	assert.Contains(t, keywordTexts(keywords), "broken")

	// non-positive falls back to the default
	keywords, _ = ExtractKeywords(fastDeliveryCorpus(), 0)
	assert.Len(t, keywords, 3)
}

func TestExtractKeywords_CountsEveryOccurrence(t *testing.T) {
	reviews := []models.Review{
		labeled("slow slow slow", models.SentimentNegative),
	}
	keywords, _ := ExtractKeywords(reviews, 2)

	counts := make(map[string]int)
	for _, k := range keywords {
		counts[k.Text] = k.Count
	}
	assert.Equal(t, 3, counts["slow"])
	assert.Equal(t, 2, counts["slow slow"])
}

func TestExtractKeywords_Truncates(t *testing.T) {
	var words []string
	for i := 0; i < 40; i++ {
		words = append(words, "word"+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	text := strings.Join(words, " ")
	reviews := []models.Review{
		labeled(text, models.SentimentNeutral),
		labeled(text, models.SentimentNeutral),
		labeled(text, models.SentimentNeutral),
	}

	keywords, _ := ExtractKeywords(reviews, 3)
	assert.Len(t, keywords, MaxKeywords)
}

func TestExtractKeywords_Empty(t *testing.T) {
	keywords, buckets := ExtractKeywords(nil, 3)
	assert.NotNil(t, keywords)
	assert.Empty(t, keywords)
	assert.Len(t, buckets, len(KeywordCategories())+1)
}

func TestLegacyWords(t *testing.T) {
	keywords := []models.Keyword{
		{Text: "slow", Count: 6, Sentiment: models.SentimentNegative},
		{Text: "great", Count: 4, Sentiment: models.SentimentPositive},
		{Text: "box", Count: 3, Sentiment: models.SentimentNeutral},
	}

	words := LegacyWords(keywords, 2)
	assert.Equal(t, []models.WordCount{
		{Text: "slow", Count: 6, Sentiment: models.SentimentNegative},
		{Text: "great", Count: 4, Sentiment: models.SentimentPositive},
	}, words)

	assert.Len(t, LegacyWords(keywords, 25), 3)
	assert.NotNil(t, LegacyWords(nil, 25))
}

func TestSortByWeight(t *testing.T) {
	keywords := []models.Keyword{
		{Text: "a", Count: 1, TFIDF: 0.1},
		{Text: "b", Count: 3, TFIDF: 0.1},
		{Text: "c", Count: 2, TFIDF: 0.12},
		{Text: "d", Count: 3, TFIDF: -0.1},
	}
	sortByWeight(keywords)
	assert.Equal(t, []string{"b", "c", "a", "d"}, keywordTexts(keywords))
}

func TestExtractKeywords_Idempotent(t *testing.T) {
	corpus := fastDeliveryCorpus()

	firstKeywords, firstBuckets := ExtractKeywords(corpus, 2)
	secondKeywords, secondBuckets := ExtractKeywords(corpus, 2)

	require.NotEmpty(t, firstKeywords)
	assert.Equal(t, firstKeywords, secondKeywords)
	assert.Equal(t, firstBuckets, secondBuckets)
	assert.Equal(t, fastDeliveryCorpus(), corpus)
}

// cheapCorpus tags "cheap" with both Product Quality and Pricing & Value
func cheapCorpus() []models.Review {
	return []models.Review{
		labeled("cheap flimsy handle", models.SentimentNegative),
		labeled("cheap flimsy lid", models.SentimentNegative),
		labeled("cheap plastic", models.SentimentNegative),
		labeled("cheap overpriced", models.SentimentNegative),
		labeled("overpriced overall", models.SentimentNegative),
		labeled("lovely colour", models.SentimentNeutral),
		labeled("bought gift", models.SentimentNeutral),
		labeled("sister liked", models.SentimentNeutral),
		labeled("works okay", models.SentimentNeutral),
		labeled("returned later", models.SentimentNeutral),
	}
}

func TestExtractKeywords_MultiCategoryBuckets(t *testing.T) {
	keywords, buckets := ExtractKeywords(cheapCorpus(), 2)

	require.ElementsMatch(t, []string{"cheap", "flimsy", "cheap flimsy", "overpriced"}, keywordTexts(keywords))
	for _, k := range keywords {
		if k.Text == "cheap" {
			assert.Equal(t, []string{"Product Quality", "Pricing & Value"}, k.Categories)
		}
	}

	quality := buckets["Product Quality"].Negative
	pricing := buckets["Pricing & Value"].Negative

	// weights: overpriced 1.20, cheap 1.16, flimsy and cheap flimsy 0.80
	assert.Equal(t, []string{"cheap", "flimsy", "cheap flimsy"}, keywordTexts(quality))
	assert.Equal(t, []string{"overpriced", "cheap", "cheap flimsy"}, keywordTexts(pricing))

	for name, bucket := range map[string][]models.Keyword{"Product Quality": quality, "Pricing & Value": pricing} {
		for i := 1; i < len(bucket); i++ {
			assert.GreaterOrEqual(t, bucket[i-1].Weight(), bucket[i].Weight(), name)
		}
	}

	assert.InDelta(t, 2*0.5*math.Log(10.0/3.0), pricing[0].Weight(), 1e-9)
	assert.InDelta(t, (5.0/3.0)*math.Log(2), quality[0].Weight(), 1e-9)

	assert.Empty(t, buckets["Product Quality"].Positive)
	assert.Empty(t, buckets["Pricing & Value"].Neutral)
	assert.Empty(t, buckets[generalCategory].Negative)
}
