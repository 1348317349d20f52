// Package ranking scores and orders catalog products against search criteria.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/sortify/sortify/internal/models"
)

// Ranker filters a catalog by search criteria, scores the survivors, and
// returns a bounded, ordered result set.
type Ranker struct {
	config *Config
}

// NewRanker creates a Ranker with the given configuration.
func NewRanker(config *Config) *Ranker {
	if config == nil {
		config = DefaultConfig()
	}
	config.ApplyDefaults()
	return &Ranker{config: config}
}

// Score computes the relevance score for a product:
//
//	score = rating * log10(ratingCount + 1)
//
// The log-scaled review count keeps a 5.0 rating with one review from
// outranking a 4.5 rating backed by thousands. Missing rating or count
// contribute 0.
func Score(p models.Product) float64 {
	return p.Rating * math.Log10(float64(p.RatingCount)+1)
}

// Rank filters catalog by criteria and returns at most MaxResults products
// ordered by descending score. Equal-score products keep their catalog order.
// A nil or empty catalog yields an empty result; malformed price bounds fall
// back to [0, +Inf). Rank has no side effects.
func (r *Ranker) Rank(catalog []models.Product, criteria models.SearchCriteria) []models.RankedResult {
	min, max := criteria.Bounds()
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	results := make([]models.RankedResult, 0, len(catalog))
	for _, p := range catalog {
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		amount := p.Price.Amount()
		if amount < min || amount > max {
			continue
		}
		results = append(results, models.RankedResult{Product: p, Score: Score(p)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return TopN(results, r.config.MaxResults)
}

// TopN returns the first n results.
func TopN(results []models.RankedResult, n int) []models.RankedResult {
	if n >= len(results) {
		return results
	}
	return results[:n]
}
