package score

import (
	"sort"

	"lasercalc/internal/recommend"
	"lasercalc/internal/validate"
)

// CompositeResult is the complete outcome of evaluating one entity: the
// weighted composite score, its tier, the per-metric sub-scores it was built
// from, and the derived secondary outputs. Results are value objects created
// fresh on every evaluation; the pipeline retains nothing between calls.
type CompositeResult struct {
	// ID — caller-supplied entity identifier (equipment model, job name).
	// Empty for single-entity calculators.
	ID string `json:"id,omitempty"`
	// Overall — weighted composite score in [0,100].
	Overall float64 `json:"overallScore"`
	// Tier — discrete classification of Overall.
	Tier Tier `json:"tier"`
	// SubScores — normalized [0,100] score per metric.
	SubScores SubScores `json:"subScores"`
	// Strengths — metric ids with the highest sub-scores, best first.
	Strengths []string `json:"strengths"`
	// Weaknesses — metric ids with the lowest sub-scores, worst first.
	Weaknesses []string `json:"weaknesses"`
	// Warnings — non-blocking consistency findings from validation.
	Warnings []validate.Warning `json:"warnings,omitempty"`
	// Recommendations — deterministic advice derived from tier and sub-scores.
	Recommendations []recommend.Recommendation `json:"recommendations,omitempty"`
	// Gaps — gap-to-benchmark table for headline metrics.
	Gaps []recommend.Gap `json:"gaps,omitempty"`
}

// TopMetrics returns up to n metric ids ordered by sub-score, descending
// when desc is true. Ties are broken by metric id so the derived lists are
// deterministic regardless of map iteration order.
func TopMetrics(sub SubScores, n int, desc bool) []string {
	ids := make([]string, 0, len(sub))
	for id := range sub {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if sub[a] == sub[b] {
			return a < b
		}
		if desc {
			return sub[a] > sub[b]
		}
		return sub[a] < sub[b]
	})
	if n > len(ids) {
		n = len(ids)
	}
	return ids[:n]
}
