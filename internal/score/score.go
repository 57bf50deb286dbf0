package score

import (
	"sort"
)

// SubScores maps metric identifiers to normalized [0,100] values.
// Sub-scores are ephemeral: recomputed on every evaluation, never cached.
type SubScores map[string]float64

// Weights maps metric identifiers to non-negative relative weights.
// Callers do not have to normalize the vector; Composite divides by the sum
// of the weights actually applied, so partial vectors keep the [0,100] scale.
type Weights map[string]float64

// EmptyWeightError is returned when the weight vector and the sub-score map
// share no keys: the weighted sum is mathematically undefined.
type EmptyWeightError struct {
	message string
}

// Error returns the textual description of the error.
func (e *EmptyWeightError) Error() string {
	return e.message
}

// NewEmptyWeightError creates a new EmptyWeightError.
func NewEmptyWeightError() *EmptyWeightError {
	return &EmptyWeightError{message: "weights and sub-scores share no metric"}
}

// Composite combines normalized sub-scores into a single [0,100] value:
// Σ(sub[m] * w[m]) / Σ(w[m]) over the intersection of the two maps.
//
// Keys are accumulated in sorted order so the floating-point sum is
// bit-reproducible for identical inputs. Metrics with a zero weight count
// toward the intersection but contribute nothing, so an all-zero overlap is
// rejected the same way as an empty one.
func Composite(sub SubScores, weights Weights) (float64, error) {
	keys := make([]string, 0, len(weights))
	for id := range weights {
		if _, ok := sub[id]; ok {
			keys = append(keys, id)
		}
	}
	if len(keys) == 0 {
		return 0, NewEmptyWeightError()
	}
	sort.Strings(keys)

	var sum, total float64
	for _, id := range keys {
		sum += sub[id] * weights[id]
		total += weights[id]
	}
	if total == 0 {
		return 0, NewEmptyWeightError()
	}
	return sum / total, nil
}
