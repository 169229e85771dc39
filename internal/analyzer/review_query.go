package analyzer

import (
	"sort"
	"strings"

	"github.com/zombar/reviewinsights/internal/models"
)

// DefaultPageSize is the number of reviews per page when none is requested
const DefaultPageSize = 10

// Sort orders accepted by QueryReviews
const (
	SortByDate      = "date"
	SortByRating    = "rating"
	SortBySentiment = "sentiment"
	SortByLength    = "length"
)

// SentimentFilterAll disables sentiment filtering
const SentimentFilterAll = "all"

// ReviewQuery selects a page of scored reviews
type ReviewQuery struct {
	Search    string `json:"search"`
	Sentiment string `json:"sentiment" validate:"omitempty,oneof=all positive negative neutral"`
	SortBy    string `json:"sort_by" validate:"omitempty,oneof=date rating sentiment length"`
	Page      int    `json:"page" validate:"gte=0,lte=1000000"`
	PageSize  int    `json:"page_size" validate:"gte=0,lte=100"`
}

// ReviewPage is one page of matching reviews
type ReviewPage struct {
	Reviews    []models.Review `json:"reviews"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// QueryReviews filters, sorts and paginates reviews. Sorting by date keeps
// input order; rating and length sort descending; sentiment sorts by score
// descending. Pages are 1-based and out-of-range pages are empty.
func QueryReviews(reviews []models.Review, q ReviewQuery) ReviewPage {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]models.Review, 0, len(reviews))
	for _, review := range reviews {
		if needle != "" && !strings.Contains(strings.ToLower(review.Text), needle) {
			continue
		}
		if q.Sentiment != "" && q.Sentiment != SentimentFilterAll && string(review.Sentiment) != q.Sentiment {
			continue
		}
		matched = append(matched, review)
	}

	switch q.SortBy {
	case SortByRating:
		sort.SliceStable(matched, func(i, j int) bool {
			return ratingOf(matched[i]) > ratingOf(matched[j])
		})
	case SortBySentiment:
		type scoredReview struct {
			review models.Review
			score  float64
		}
		tmp := make([]scoredReview, len(matched))
		for i, review := range matched {
			tmp[i] = scoredReview{review, ScoreSentiment(review.Text).Score}
		}
		sort.SliceStable(tmp, func(i, j int) bool {
			return tmp[i].score > tmp[j].score
		})
		for i := range tmp {
			matched[i] = tmp[i].review
		}
	case SortByLength:
		sort.SliceStable(matched, func(i, j int) bool {
			return len(matched[i].Text) > len(matched[j].Text)
		})
	}

	result := ReviewPage{
		Reviews:    []models.Review{},
		Total:      len(matched),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (len(matched) + pageSize - 1) / pageSize,
	}

	// compare page numbers first so large pages cannot overflow the offset
	if page-1 >= result.TotalPages {
		return result
	}
	lo := (page - 1) * pageSize
	hi := min(lo+pageSize, len(matched))
	result.Reviews = matched[lo:hi]
	return result
}

func ratingOf(review models.Review) float64 {
	if review.Rating == nil {
		return 0
	}
	return *review.Rating
}
