package analyzer

// Lookup tables are built once at package init and only read afterwards.

// sentimentWeights maps a word to its signed sentiment weight.
// Strong words weigh 2, moderate 1.5, mild 1.
var sentimentWeights = map[string]float64{
	// strong positive
	"excellent": 2, "amazing": 2, "outstanding": 2, "fantastic": 2, "perfect": 2,
	"incredible": 2, "superb": 2, "exceptional": 2, "brilliant": 2, "magnificent": 2,

	// moderate positive
	"great": 1.5, "wonderful": 1.5, "awesome": 1.5, "impressive": 1.5, "remarkable": 1.5,

	// mild positive
	"good": 1, "nice": 1, "fine": 1, "okay": 1, "decent": 1, "satisfied": 1, "happy": 1,
	"pleased": 1, "recommend": 1, "helpful": 1, "useful": 1, "quality": 1, "fast": 1,
	"easy": 1, "smooth": 1, "reliable": 1, "efficient": 1, "professional": 1,

	// strong negative
	"terrible": -2, "awful": -2, "horrible": -2, "disgusting": -2, "appalling": -2,
	"atrocious": -2, "dreadful": -2, "abysmal": -2, "catastrophic": -2, "disastrous": -2,

	// moderate negative
	"bad": -1.5, "poor": -1.5, "disappointing": -1.5, "frustrating": -1.5, "annoying": -1.5,

	// mild negative
	"slow": -1, "expensive": -1, "delayed": -1, "broken": -1, "defective": -1, "useless": -1,
	"problem": -1, "issue": -1, "difficult": -1, "complicated": -1, "confusing": -1,
	"unreliable": -1, "unprofessional": -1, "rude": -1, "unhelpful": -1,
}

// intensifiers multiply the weight of the word that follows them
var intensifiers = map[string]float64{
	"very":       1.5,
	"extremely":  2,
	"incredibly": 2,
	"absolutely": 1.8,
	"totally":    1.6,
	"really":     1.3,
	"quite":      1.2,
	"rather":     1.1,
	"somewhat":   0.8,
	"slightly":   0.7,
}

// negationWords flip the polarity of a sentiment word within a short window
var negationWords = newWordSet(
	"not", "no", "never", "nothing", "nowhere", "neither", "nobody", "none",
	"hardly", "scarcely", "barely",
)

// reviewStopWords are skipped when building keyword n-grams
var reviewStopWords = newWordSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had", "her", "was", "one",
	"our", "out", "day", "get", "has", "him", "his", "how", "man", "new", "now", "old", "see",
	"two", "way", "who", "boy", "did", "its", "let", "put", "say", "she", "too", "use", "this",
	"that", "with", "have", "from", "they", "know", "want", "been", "good", "much", "some",
	"time", "very", "when", "come", "here", "just", "like", "long", "make", "many", "over",
	"such", "take", "than", "them", "well", "were", "will", "would", "there", "what", "your",
	"about", "after", "again", "before", "being", "below", "between", "both", "during", "each",
	"few", "further", "having", "into", "more", "most", "other", "same", "should", "since",
	"their", "these", "those", "through", "until", "where", "which", "while", "without",
)

// taxonomyEntry is one category with its defining keywords
type taxonomyEntry struct {
	Name     string
	Keywords []string
}

// generalCategory tags keywords that match no taxonomy entry
const generalCategory = "General"

// keywordTaxonomy is used to tag extracted keywords
var keywordTaxonomy = []taxonomyEntry{
	{"Product Quality", []string{
		"quality", "material", "build", "construction", "durability", "craftsmanship", "design",
		"finish", "texture", "appearance", "functionality", "performance", "reliability", "sturdy",
		"flimsy", "cheap", "premium", "solid", "lightweight", "heavy", "smooth", "rough",
		"defective", "broken", "damaged",
	}},
	{"Customer Service", []string{
		"service", "staff", "support", "help", "assistance", "representative", "agent", "team",
		"friendly", "helpful", "rude", "unprofessional", "knowledgeable", "responsive", "patient",
		"courteous", "attitude", "communication", "follow-up", "resolution", "complaint", "issue",
		"problem", "solution",
	}},
	{"Delivery & Shipping", []string{
		"delivery", "shipping", "arrived", "package", "fast", "slow", "quick", "delayed", "late",
		"early", "on-time", "tracking", "courier", "packaging", "box", "wrapped", "damaged", "lost",
		"missing", "expedited", "standard", "express", "overnight", "logistics", "transport",
	}},
	{"Pricing & Value", []string{
		"price", "cost", "expensive", "cheap", "affordable", "value", "money", "worth", "budget",
		"overpriced", "reasonable", "fair", "discount", "sale", "deal", "bargain", "investment",
		"costly", "economical", "premium", "luxury", "budget-friendly", "cost-effective",
	}},
	{"User Experience", []string{
		"easy", "difficult", "simple", "complex", "intuitive", "confusing", "user-friendly",
		"interface", "navigation", "setup", "installation", "instructions", "manual", "guide",
		"tutorial", "learning", "curve", "straightforward", "complicated", "seamless", "smooth",
		"clunky",
	}},
	{"Features & Functionality", []string{
		"feature", "function", "capability", "option", "setting", "mode", "tool", "utility",
		"versatile", "limited", "comprehensive", "basic", "advanced", "innovative", "outdated",
		"modern", "cutting-edge", "useful", "useless", "practical", "convenient", "efficient",
		"effective",
	}},
}

// chartTaxonomy drives the per-category sentiment chart
var chartTaxonomy = []taxonomyEntry{
	{"Service", []string{"service", "staff", "help", "support", "customer", "representative", "team", "experience"}},
	{"Product", []string{"product", "item", "quality", "material", "design", "feature", "functionality", "performance"}},
	{"Delivery", []string{"delivery", "shipping", "arrived", "package", "fast", "slow", "transport", "logistics"}},
	{"Support", []string{"support", "help", "assistance", "response", "solution", "technical", "customer service"}},
	{"Price", []string{"price", "cost", "expensive", "cheap", "value", "money", "affordable", "budget"}},
}

func newWordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}

// KeywordCategories returns the keyword taxonomy category names in order, without General
func KeywordCategories() []string {
	names := make([]string, len(keywordTaxonomy))
	for i, entry := range keywordTaxonomy {
		names[i] = entry.Name
	}
	return names
}

// ChartCategories returns the chart taxonomy category names in order
func ChartCategories() []string {
	names := make([]string, len(chartTaxonomy))
	for i, entry := range chartTaxonomy {
		names[i] = entry.Name
	}
	return names
}
