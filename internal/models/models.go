package models

// Sentiment is the polarity label assigned to a text
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Review represents a single customer review record
type Review struct {
	ID       string   `json:"id"`
	Text     string   `json:"review"`
	Rating   *float64 `json:"rating,omitempty"` // 1-5 when present
	Category string   `json:"category,omitempty"`
	Date     string   `json:"date,omitempty"`

	// Attached by the pipeline after scoring
	Sentiment  Sentiment `json:"sentiment,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
}

// SentimentResult is the outcome of scoring one text
type SentimentResult struct {
	Label      Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"` // 0.0 to 1.0
	Score      float64   `json:"score"`      // -1.0 to 1.0
}

// Keyword is a 1-3 word phrase with corpus statistics
type Keyword struct {
	Text       string    `json:"text"`
	Count      int       `json:"count"`
	Sentiment  Sentiment `json:"sentiment"`
	TFIDF      float64   `json:"tfidf"`
	Contexts   []string  `json:"contexts"`
	Categories []string  `json:"categories"`
}

// Weight is the ranking weight of a keyword
func (k Keyword) Weight() float64 {
	return k.TFIDF * float64(k.Count)
}

// KeywordBuckets groups keywords of one category by dominant sentiment
type KeywordBuckets struct {
	Positive []Keyword `json:"positive"`
	Negative []Keyword `json:"negative"`
	Neutral  []Keyword `json:"neutral"`
}

// CategoryKeywords maps a category name to its sentiment buckets
type CategoryKeywords map[string]*KeywordBuckets

// WordCount is the legacy keyword projection used by the word cloud
type WordCount struct {
	Text      string    `json:"text"`
	Count     int       `json:"count"`
	Sentiment Sentiment `json:"sentiment"`
}

// Stats summarizes sentiment across all reviews
type Stats struct {
	TotalReviews    int     `json:"total_reviews"`
	PositiveReviews int     `json:"positive_reviews"`
	NegativeReviews int     `json:"negative_reviews"`
	NeutralReviews  int     `json:"neutral_reviews"`
	AverageRating   float64 `json:"average_rating"`
}

// CategorySentiment is one chart data point
type CategorySentiment struct {
	Category string `json:"category"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Neutral  int    `json:"neutral"`
}

// Total returns the number of reviews in the category
func (c CategorySentiment) Total() int {
	return c.Positive + c.Negative + c.Neutral
}

// Priority ranks a suggestion
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight returns the numeric rank of a priority (high=3, medium=2, low=1)
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Suggestion is an actionable recommendation derived from review statistics
type Suggestion struct {
	ID             string   `json:"id"`
	Category       string   `json:"category"`
	Issue          string   `json:"issue"`
	Recommendation string   `json:"recommendation"`
	Priority       Priority `json:"priority"`
	ImpactEstimate string   `json:"impact_estimate"`
	ActionItems    []string `json:"action_items"`
	Timeframe      string   `json:"timeframe"`
	Metrics        []string `json:"metrics"`
	Confidence     float64  `json:"confidence"` // 0.0 to 1.0
}

// SuggestionSummary describes a ranked suggestion list
type SuggestionSummary struct {
	TotalIssues       int      `json:"total_issues"`
	HighPriorityCount int      `json:"high_priority_count"`
	EstimatedImpact   string   `json:"estimated_impact"` // High, Medium, Low
	ImpactDescription string   `json:"impact_description"`
	KeyFocusAreas     []string `json:"key_focus_areas"`
}

// SuggestionAnalysis is the output of the suggestion engine
type SuggestionAnalysis struct {
	Suggestions []Suggestion      `json:"suggestions"`
	Summary     SuggestionSummary `json:"summary"`
}

// RoadmapPhase is one step of the implementation plan
type RoadmapPhase struct {
	Phase           int          `json:"phase"`
	Title           string       `json:"title"`
	Duration        string       `json:"duration"`
	Suggestions     []Suggestion `json:"suggestions"`
	ExpectedOutcome string       `json:"expected_outcome"`
}

// Roadmap is the phased rollout of suggestions
type Roadmap struct {
	Phases []RoadmapPhase `json:"phases"`
}

// Report contains everything produced by one pipeline run
type Report struct {
	Reviews          []Review            `json:"reviews"`
	Stats            Stats               `json:"stats"`
	ChartData        []CategorySentiment `json:"chart_data"`
	Words            []WordCount         `json:"words"`
	Keywords         []Keyword           `json:"keywords"`
	CategoryKeywords CategoryKeywords    `json:"category_keywords"`
	Suggestions      SuggestionAnalysis  `json:"suggestions"`
	Roadmap          Roadmap             `json:"roadmap"`
}
