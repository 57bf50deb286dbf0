package score

import (
	"sort"
)

// Ranked wraps a CompositeResult with its 1-based position in the primary
// ranking.
type Ranked struct {
	*CompositeResult
	Rank int `json:"rank"`
}

// Ranking is the outcome of a multi-entity evaluation: the primary ranking
// by composite score plus independently derived named selections. The named
// selections are secondary sorts over the same result list and may disagree
// with rank 1.
type Ranking struct {
	Results []Ranked `json:"results"`

	BestOverall     string `json:"bestOverall,omitempty"`
	BestValue       string `json:"bestValue,omitempty"`
	BestBudget      string `json:"bestBudget,omitempty"`
	BestPerformance string `json:"bestPerformance,omitempty"`
}

// Rank orders results descending by composite score and assigns 1-based
// ranks. The sort is stable: entities with equal scores keep their input
// order. The input slice is not modified.
func Rank(results []*CompositeResult) *Ranking {
	ordered := make([]*CompositeResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Overall > ordered[j].Overall
	})

	ranking := Ranking{Results: make([]Ranked, len(ordered))}
	for i, r := range ordered {
		ranking.Results[i] = Ranked{CompositeResult: r, Rank: i + 1}
	}
	return &ranking
}

// SelectBy returns the ID of the entity that wins under the given ordering.
// The sort always runs on a fresh copy so repeated selections never disturb
// the primary ranking or each other. Stable, so ties go to input order.
func SelectBy(results []*CompositeResult, less func(a, b *CompositeResult) bool) string {
	if len(results) == 0 {
		return ""
	}
	ordered := make([]*CompositeResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})
	return ordered[0].ID
}
