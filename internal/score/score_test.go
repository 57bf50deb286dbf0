package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite_EqualWeights(t *testing.T) {
	sub := SubScores{"a": 50, "b": 100}
	weights := Weights{"a": 1, "b": 1}

	result, err := Composite(sub, weights)
	require.NoError(t, err)
	assert.Equal(t, 75.0, result)
}

func TestComposite_NormalizesBySumOfWeights(t *testing.T) {
	// Weight vector sums to 150, not 100; the result must still be the
	// weighted mean, not a fixed-100 projection.
	sub := SubScores{"a": 60, "b": 90}
	weights := Weights{"a": 100, "b": 50}

	result, err := Composite(sub, weights)
	require.NoError(t, err)
	assert.Equal(t, 70.0, result)
	assert.GreaterOrEqual(t, result, 0.0)
	assert.LessOrEqual(t, result, 100.0)
}

func TestComposite_PartialIntersection(t *testing.T) {
	// Metrics present only on one side are ignored; the scale does not skew.
	sub := SubScores{"a": 80, "b": 40}
	weights := Weights{"a": 1, "c": 99}

	result, err := Composite(sub, weights)
	require.NoError(t, err)
	assert.Equal(t, 80.0, result)
}

func TestComposite_EmptyIntersection(t *testing.T) {
	_, err := Composite(SubScores{"a": 50}, Weights{"x": 1})
	require.Error(t, err)
	var empty *EmptyWeightError
	assert.ErrorAs(t, err, &empty)
}

func TestComposite_ZeroTotalWeight(t *testing.T) {
	_, err := Composite(SubScores{"a": 50}, Weights{"a": 0})
	require.Error(t, err)
	var empty *EmptyWeightError
	assert.ErrorAs(t, err, &empty)
}

func TestComposite_Bounded(t *testing.T) {
	sub := SubScores{"a": 0, "b": 100, "c": 33.3}
	weights := Weights{"a": 7, "b": 13, "c": 5}

	result, err := Composite(sub, weights)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result, 0.0)
	assert.LessOrEqual(t, result, 100.0)
}

func TestComposite_Deterministic(t *testing.T) {
	sub := SubScores{"a": 11.1, "b": 22.2, "c": 33.3, "d": 44.4}
	weights := Weights{"a": 1, "b": 2, "c": 3, "d": 4}

	first, err := Composite(sub, weights)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := Composite(sub, weights)
		require.NoError(t, err)
		assert.Equal(t, first, again, "accumulation order must not depend on map iteration")
	}
}

func TestLoadWeights_Valid(t *testing.T) {
	const script = `
throughput: 25
qualityRate: 20
oee: 20
`
	w, err := LoadWeights([]byte(script))
	require.NoError(t, err)
	assert.Equal(t, 25.0, w["throughput"])
	assert.Len(t, w, 3)
}

func TestLoadWeights_NegativeRejected(t *testing.T) {
	_, err := LoadWeights([]byte("throughput: -1"))
	assert.Error(t, err)
}
