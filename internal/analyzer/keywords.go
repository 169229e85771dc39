package analyzer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/zombar/reviewinsights/internal/models"
)

const (
	// DefaultMinKeywordCount is the minimum number of occurrences for a phrase to be kept
	DefaultMinKeywordCount = 3
	// MaxKeywords caps the ranked keyword list
	MaxKeywords = 50
	// LegacyWordLimit is the size of the word cloud projection
	LegacyWordLimit = 25

	maxNGram         = 3
	maxContexts      = 3
	contextRuneLimit = 100
)

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// phraseStats accumulates occurrences of one n-gram
type phraseStats struct {
	count      int
	sentiments []models.Sentiment
	contexts   []string
	tfidfSum   float64
}

// corpus holds lowercased documents and memoized document frequencies
type corpus struct {
	docs []string
	df   map[string]int
}

func newCorpus(reviews []models.Review) *corpus {
	docs := make([]string, len(reviews))
	for i, r := range reviews {
		docs[i] = strings.ToLower(r.Text)
	}
	return &corpus{docs: docs, df: make(map[string]int)}
}

// documentFrequency counts documents containing term as a substring
func (c *corpus) documentFrequency(term string) int {
	if n, ok := c.df[term]; ok {
		return n
	}
	n := 0
	for _, doc := range c.docs {
		if strings.Contains(doc, term) {
			n++
		}
	}
	c.df[term] = n
	return n
}

// tfidf scores term against document i. IDF is not floored at zero.
func (c *corpus) tfidf(term string, i int, rawDoc string) float64 {
	docLength := len(strings.Fields(rawDoc))
	if docLength == 0 {
		return 0
	}
	tf := float64(strings.Count(c.docs[i], term)) / float64(docLength)
	idf := math.Log(float64(len(c.docs)) / float64(c.documentFrequency(term)+1))
	return tf * idf
}

// keywordTokens returns the filtered token sequence used for n-grams
func keywordTokens(text string) []string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, " ")

	var tokens []string
	for _, word := range strings.Fields(text) {
		if len(word) > 2 && !reviewStopWords[word] {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// nGrams builds contiguous n-word phrases longer than 3 characters
func nGrams(tokens []string, n int) []string {
	var grams []string
	for i := 0; i+n <= len(tokens); i++ {
		gram := strings.Join(tokens[i:i+n], " ")
		if len(gram) > 3 {
			grams = append(grams, gram)
		}
	}
	return grams
}

// contextSnippet returns the first 100 characters of text followed by an ellipsis
func contextSnippet(text string) string {
	runes := []rune(text)
	if len(runes) > contextRuneLimit {
		runes = runes[:contextRuneLimit]
	}
	return string(runes) + "..."
}

// ExtractKeywords builds 1-3 word keyword statistics over the review corpus.
// Reviews without a sentiment label count as neutral. A minCount <= 0 uses
// DefaultMinKeywordCount.
func ExtractKeywords(reviews []models.Review, minCount int) ([]models.Keyword, models.CategoryKeywords) {
	if minCount <= 0 {
		minCount = DefaultMinKeywordCount
	}

	c := newCorpus(reviews)
	stats := make(map[string]*phraseStats)
	var order []string

	for i, review := range reviews {
		sentiment := review.Sentiment
		if sentiment == "" {
			sentiment = models.SentimentNeutral
		}
		tokens := keywordTokens(review.Text)

		for n := 1; n <= maxNGram; n++ {
			for _, gram := range nGrams(tokens, n) {
				s, ok := stats[gram]
				if !ok {
					s = &phraseStats{}
					stats[gram] = s
					order = append(order, gram)
				}
				s.count++
				s.sentiments = append(s.sentiments, sentiment)
				if len(s.contexts) < maxContexts {
					s.contexts = append(s.contexts, contextSnippet(review.Text))
				}
				s.tfidfSum += c.tfidf(gram, i, review.Text)
			}
		}
	}

	buckets := newCategoryKeywords()
	var keywords []models.Keyword

	for _, gram := range order {
		s := stats[gram]
		if s.count < minCount {
			continue
		}

		keyword := models.Keyword{
			Text:       gram,
			Count:      s.count,
			Sentiment:  dominantSentiment(s.sentiments),
			TFIDF:      s.tfidfSum / float64(s.count),
			Contexts:   s.contexts,
			Categories: categorizeKeyword(gram),
		}
		keywords = append(keywords, keyword)

		for _, category := range keyword.Categories {
			b := buckets[category]
			switch keyword.Sentiment {
			case models.SentimentPositive:
				b.Positive = append(b.Positive, keyword)
			case models.SentimentNegative:
				b.Negative = append(b.Negative, keyword)
			default:
				b.Neutral = append(b.Neutral, keyword)
			}
		}
	}

	sortByWeight(keywords)
	for _, b := range buckets {
		sortByWeight(b.Positive)
		sortByWeight(b.Negative)
		sortByWeight(b.Neutral)
	}

	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	if keywords == nil {
		keywords = []models.Keyword{}
	}

	return keywords, buckets
}

// LegacyWords projects the top n keywords to the word cloud shape
func LegacyWords(keywords []models.Keyword, n int) []models.WordCount {
	if n > len(keywords) {
		n = len(keywords)
	}
	words := make([]models.WordCount, 0, n)
	for _, k := range keywords[:n] {
		words = append(words, models.WordCount{
			Text:      k.Text,
			Count:     k.Count,
			Sentiment: k.Sentiment,
		})
	}
	return words
}

// dominantSentiment returns the most frequent label; on a tie the label seen first wins
func dominantSentiment(labels []models.Sentiment) models.Sentiment {
	counts := make(map[models.Sentiment]int)
	var seen []models.Sentiment
	for _, label := range labels {
		if counts[label] == 0 {
			seen = append(seen, label)
		}
		counts[label]++
	}

	dominant := models.SentimentNeutral
	best := 0
	for _, label := range seen {
		if counts[label] > best {
			dominant = label
			best = counts[label]
		}
	}
	return dominant
}

// categorizeKeyword tags a phrase with every category whose keywords overlap it
func categorizeKeyword(phrase string) []string {
	phrase = strings.ToLower(phrase)

	var categories []string
	for _, entry := range keywordTaxonomy {
		for _, k := range entry.Keywords {
			k = strings.ToLower(k)
			if strings.Contains(phrase, k) || strings.Contains(k, phrase) {
				categories = append(categories, entry.Name)
				break
			}
		}
	}

	if len(categories) == 0 {
		return []string{generalCategory}
	}
	return categories
}

func newCategoryKeywords() models.CategoryKeywords {
	buckets := make(models.CategoryKeywords, len(keywordTaxonomy)+1)
	for _, entry := range keywordTaxonomy {
		buckets[entry.Name] = emptyBuckets()
	}
	buckets[generalCategory] = emptyBuckets()
	return buckets
}

func emptyBuckets() *models.KeywordBuckets {
	return &models.KeywordBuckets{
		Positive: []models.Keyword{},
		Negative: []models.Keyword{},
		Neutral:  []models.Keyword{},
	}
}

func sortByWeight(keywords []models.Keyword) {
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Weight() > keywords[j].Weight()
	})
}
