package suggest

import (
	"fmt"
	"math"
	"strings"

	"github.com/zombar/reviewinsights/internal/models"
)

// keywordRule turns a frequent negative keyword into a suggestion.
// Rules are evaluated in order and the first match wins.
type keywordRule struct {
	Terms          []string
	Category       string
	Issue          func(word models.WordCount, percent int) string
	Recommendation string
	Priority       models.Priority
	// EscalateAbove raises the priority to high when the keyword count exceeds it; 0 disables
	EscalateAbove int
	Impact        string
	ActionItems   []string
	Timeframe     string
	Metrics       []string
}

// Matches reports whether the rule applies to the keyword text
func (r keywordRule) Matches(text string) bool {
	for _, term := range r.Terms {
		if text == term {
			return true
		}
	}
	return false
}

// Build fills the rule template for one keyword
func (r keywordRule) Build(word models.WordCount, frequency, confidence float64) models.Suggestion {
	priority := r.Priority
	if r.EscalateAbove > 0 && word.Count > r.EscalateAbove {
		priority = models.PriorityHigh
	}

	return models.Suggestion{
		Category:       r.Category,
		Issue:          r.Issue(word, percent(frequency)),
		Recommendation: r.Recommendation,
		Priority:       priority,
		ImpactEstimate: r.Impact,
		ActionItems:    append([]string(nil), r.ActionItems...),
		Timeframe:      r.Timeframe,
		Metrics:        append([]string(nil), r.Metrics...),
		Confidence:     confidence,
	}
}

var keywordRules = []keywordRule{
	{
		Terms:    []string{"slow", "delayed"},
		Category: "Delivery & Logistics",
		Issue: func(w models.WordCount, pct int) string {
			return fmt.Sprintf("%d customers (%d%%) complained about %s delivery", w.Count, pct, w.Text)
		},
		Recommendation: "Optimize delivery operations and set clearer expectations",
		Priority:       models.PriorityMedium,
		EscalateAbove:  10,
		Impact:         "15-25% improvement in delivery satisfaction",
		ActionItems: []string{
			"Partner with faster shipping providers",
			"Implement real-time tracking notifications",
			"Offer expedited shipping options",
			"Set realistic delivery timeframes",
			"Create delivery status dashboard",
		},
		Timeframe: "2-4 weeks",
		Metrics:   []string{"Average delivery time", "On-time delivery rate", "Customer satisfaction scores"},
	},
	{
		Terms:    []string{"expensive", "costly", "overpriced"},
		Category: "Pricing Strategy",
		Issue: func(w models.WordCount, pct int) string {
			return fmt.Sprintf("%d customers (%d%%) find pricing too high", w.Count, pct)
		},
		Recommendation: "Implement value-based pricing strategy and communicate value better",
		Priority:       models.PriorityMedium,
		EscalateAbove:  8,
		Impact:         "10-20% increase in price acceptance",
		ActionItems: []string{
			"Create value comparison charts",
			"Introduce tiered pricing options",
			"Offer loyalty discounts",
			"Bundle products for better value",
			"Highlight unique value propositions",
		},
		Timeframe: "1-3 weeks",
		Metrics:   []string{"Price objection rate", "Conversion rate", "Customer lifetime value"},
	},
	{
		Terms:    []string{"broken", "defective", "poor", "faulty"},
		Category: "Product Quality",
		Issue: func(w models.WordCount, pct int) string {
			return fmt.Sprintf("%d quality issues reported (%d%% of reviews)", w.Count, pct)
		},
		Recommendation: "Strengthen quality assurance and product testing processes",
		Priority:       models.PriorityHigh,
		Impact:         "20-30% reduction in quality complaints",
		ActionItems: []string{
			"Implement stricter QA testing protocols",
			"Increase pre-shipment inspections",
			"Offer extended warranties",
			"Create quality feedback loop",
			"Train manufacturing partners",
		},
		Timeframe: "4-8 weeks",
		Metrics:   []string{"Defect rate", "Return rate", "Quality satisfaction scores"},
	},
	{
		Terms:    []string{"rude", "unhelpful", "unprofessional"},
		Category: "Customer Service",
		Issue: func(w models.WordCount, _ int) string {
			return fmt.Sprintf("%d customers experienced poor service interactions", w.Count)
		},
		Recommendation: "Enhance customer service training and support processes",
		Priority:       models.PriorityMedium,
		EscalateAbove:  5,
		Impact:         "25-35% improvement in service satisfaction",
		ActionItems: []string{
			"Implement customer service training program",
			"Create service quality guidelines",
			"Monitor service interactions",
			"Establish escalation procedures",
			"Reward excellent service performance",
		},
		Timeframe: "3-6 weeks",
		Metrics:   []string{"Service satisfaction scores", "Response time", "Resolution rate"},
	},
	{
		Terms:    []string{"confusing", "complicated", "difficult"},
		Category: "User Experience",
		Issue: func(w models.WordCount, _ int) string {
			return fmt.Sprintf("%d customers found the experience confusing or difficult", w.Count)
		},
		Recommendation: "Simplify user experience and improve onboarding",
		Priority:       models.PriorityMedium,
		Impact:         "15-25% improvement in user satisfaction",
		ActionItems: []string{
			"Redesign user interface for clarity",
			"Create step-by-step guides",
			"Implement progressive disclosure",
			"Add contextual help",
			"Conduct usability testing",
		},
		Timeframe: "4-8 weeks",
		Metrics:   []string{"Task completion rate", "User satisfaction", "Support ticket volume"},
	},
}

// matchKeywordRule returns the first rule matching text
func matchKeywordRule(text string) (keywordRule, bool) {
	for _, rule := range keywordRules {
		if rule.Matches(text) {
			return rule, true
		}
	}
	return keywordRule{}, false
}

// categoryHealthSuggestion flags a chart category with a high share of negative reviews
func categoryHealthSuggestion(point models.CategorySentiment) (models.Suggestion, bool) {
	total := point.Total()
	if total == 0 {
		return models.Suggestion{}, false
	}

	ratio := float64(point.Negative) / float64(total)
	if ratio <= categoryNegativeRatio || point.Negative <= categoryMinNegatives {
		return models.Suggestion{}, false
	}

	severity := "significant"
	priority := models.PriorityMedium
	if ratio > categoryCriticalRatio {
		severity = "critical"
		priority = models.PriorityHigh
	}

	name := strings.ToLower(point.Category)
	return models.Suggestion{
		Category:       point.Category + " Operations",
		Issue:          fmt.Sprintf("%s negative sentiment in %s (%d%% negative)", severity, point.Category, percent(ratio)),
		Recommendation: fmt.Sprintf("Conduct comprehensive %s process review and improvement", name),
		Priority:       priority,
		ImpactEstimate: fmt.Sprintf("20-40%% improvement in %s satisfaction", name),
		ActionItems: []string{
			fmt.Sprintf("Audit current %s processes", name),
			"Identify specific pain points",
			"Implement process improvements",
			"Train team on new procedures",
			"Monitor improvement metrics",
		},
		Timeframe:  "6-12 weeks",
		Metrics:    []string{point.Category + " satisfaction", "Process efficiency", "Error rate"},
		Confidence: math.Min(ratio*2, 1),
	}, true
}

// globalHealthSuggestion fires when the overall negative share is too high
func globalHealthSuggestion(stats models.Stats) (models.Suggestion, bool) {
	if stats.TotalReviews == 0 {
		return models.Suggestion{}, false
	}

	ratio := float64(stats.NegativeReviews) / float64(stats.TotalReviews)
	if ratio <= globalNegativeRatio {
		return models.Suggestion{}, false
	}

	return models.Suggestion{
		Category:       "Strategic Initiative",
		Issue:          fmt.Sprintf("High overall negative sentiment (%d%% of reviews)", percent(ratio)),
		Recommendation: "Launch comprehensive customer experience improvement program",
		Priority:       models.PriorityHigh,
		ImpactEstimate: "30-50% improvement in overall satisfaction",
		ActionItems: []string{
			"Form cross-functional improvement team",
			"Conduct customer journey mapping",
			"Implement customer feedback system",
			"Create improvement roadmap",
			"Establish regular review cycles",
		},
		Timeframe:  "8-16 weeks",
		Metrics:    []string{"Overall satisfaction", "Net Promoter Score", "Customer retention"},
		Confidence: ratio,
	}, true
}

// percent rounds a ratio to a whole percentage, halves rounding up
func percent(ratio float64) int {
	return int(math.Floor(ratio*100 + 0.5))
}
