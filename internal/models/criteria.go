package models

import (
	"math"
	"strconv"
	"strings"
)

// SearchCriteria carries user-supplied search input. The price bounds are kept
// as raw strings because they come straight from form fields and may be blank
// or malformed; Bounds coerces them.
type SearchCriteria struct {
	Query    string `json:"query"`
	MinPrice string `json:"min_price,omitempty"`
	MaxPrice string `json:"max_price,omitempty"`
}

// HasQuery reports whether the query text is non-blank.
func (c SearchCriteria) HasQuery() bool {
	return strings.TrimSpace(c.Query) != ""
}

// Bounds returns the effective inclusive price range. An absent or unparsable
// minimum defaults to 0 and an absent or unparsable maximum to +Inf.
func (c SearchCriteria) Bounds() (min, max float64) {
	min = 0
	max = math.Inf(1)
	if v, err := strconv.ParseFloat(strings.TrimSpace(c.MinPrice), 64); err == nil {
		min = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(c.MaxPrice), 64); err == nil {
		max = v
	}
	return min, max
}

// RankedResult is a read-only view of a product plus its computed relevance
// score. It exists only for the duration of a search response.
type RankedResult struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}
