// Package ingest turns uploaded spreadsheets, CSV files and JSON documents
// into review records.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zombar/reviewinsights/internal/models"
)

// ErrIngestionFailed is returned for every input that cannot be turned into reviews
var ErrIngestionFailed = errors.New("ingestion failed")

// Row is one tabular record keyed by column header
type Row map[string]any

var (
	textColumns     = []string{"review", "comment", "feedback"}
	ratingColumns   = []string{"rating", "score"}
	categoryColumns = []string{"category"}
	dateColumns     = []string{"date"}
)

const (
	minRating = 1
	maxRating = 5
)

func failf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIngestionFailed, fmt.Sprintf(format, args...))
}

// Records maps rows to reviews. Column names are matched case-insensitively
// and the first non-empty alias wins. Ids reflect the row index before rows
// with blank text are dropped.
func Records(rows []Row) []models.Review {
	reviews := make([]models.Review, 0, len(rows))
	for i, row := range rows {
		cells := normalizeKeys(row)

		text := firstString(cells, textColumns)
		if strings.TrimSpace(text) == "" {
			continue
		}

		reviews = append(reviews, models.Review{
			ID:       fmt.Sprintf("review-%d", i),
			Text:     text,
			Rating:   parseRating(firstValue(cells, ratingColumns)),
			Category: firstString(cells, categoryColumns),
			Date:     firstString(cells, dateColumns),
		})
	}
	return reviews
}

// normalizeKeys lowercases and trims column names. An exact lowercase key
// takes precedence over a differently cased duplicate.
func normalizeKeys(row Row) map[string]any {
	cells := make(map[string]any, len(row))
	for key, value := range row {
		lower := strings.ToLower(strings.TrimSpace(key))
		if _, exists := cells[lower]; exists && key != lower {
			continue
		}
		cells[lower] = value
	}
	return cells
}

func firstValue(cells map[string]any, aliases []string) any {
	for _, alias := range aliases {
		if v, ok := cells[alias]; ok && stringify(v) != "" {
			return v
		}
	}
	return nil
}

func firstString(cells map[string]any, aliases []string) string {
	return stringify(firstValue(cells, aliases))
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if !val {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(val)
	}
}

// parseRating accepts numbers and numeric strings within [1, 5]
func parseRating(v any) *float64 {
	var rating float64
	switch val := v.(type) {
	case float64:
		rating = val
	case int:
		rating = float64(val)
	case int64:
		rating = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		rating = parsed
	default:
		return nil
	}

	if math.IsNaN(rating) || rating < minRating || rating > maxRating {
		return nil
	}
	return &rating
}
