// Package scoring turns per-criterion ratings into the 0–100 weighted total.
package scoring

import (
	"math"
	"strconv"

	"github.com/kingrea/peerreview/internal/rubric"
)

// Scores exposes the ratings recorded for a catalog.
type Scores interface {
	Score(id string) (int, bool)
}

// ComputeTotal sums (score/MaxScore)*weight over the catalog and rounds to one
// decimal place. A missing score contributes nothing; callers gate on
// completeness before trusting the result.
func ComputeTotal(catalog rubric.Catalog, scores Scores) float64 {
	total := 0.0
	for _, crit := range catalog.Criteria {
		score, ok := scores.Score(crit.ID)
		if !ok {
			continue
		}
		total += float64(score) / rubric.MaxScore * crit.Weight
	}
	return Round(total)
}

// Round rounds to one decimal place.
func Round(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatTotal renders a total with exactly one decimal place.
func FormatTotal(total float64) string {
	return strconv.FormatFloat(total, 'f', 1, 64)
}
