package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lasercalc/internal/input"
	"lasercalc/internal/score"
)

func fiberOperation() input.Record {
	return input.Record{
		"throughput":       60,
		"utilization":      70,
		"qualityRate":      95,
		"defectRate":       2.5,
		"energyEfficiency": 35,
		"oee":              60,
	}
}

func TestCalculator_Evaluate_ThroughputAtBenchmarkBounds(t *testing.T) {
	cal, err := New(MachineFiber)
	require.NoError(t, err)

	// At the class high reference the sub-score is exactly 100.
	rec := fiberOperation()
	rec["throughput"] = 120
	result, err := cal.Evaluate(rec)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.SubScores["throughput"])

	// At the low reference, exactly 0.
	rec["throughput"] = 20
	result, err = cal.Evaluate(rec)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.SubScores["throughput"])
}

func TestCalculator_Evaluate_ClassTriplesDiffer(t *testing.T) {
	fiber, err := New(MachineFiber)
	require.NoError(t, err)
	co2, err := New(MachineCO2)
	require.NoError(t, err)

	rec := fiberOperation()
	rec["throughput"] = 80

	fiberResult, err := fiber.Evaluate(rec)
	require.NoError(t, err)
	co2Result, err := co2.Evaluate(rec)
	require.NoError(t, err)

	// 80 parts/h tops the co2 class but sits mid-range for fiber.
	assert.Equal(t, 100.0, co2Result.SubScores["throughput"])
	assert.Less(t, fiberResult.SubScores["throughput"], 100.0)
	assert.Equal(t, MachineCO2, co2Result.MachineType)
}

func TestCalculator_Evaluate_TierAndRecommendations(t *testing.T) {
	cal, err := New(MachineFiber)
	require.NoError(t, err)

	poor := input.Record{
		"throughput":       25,
		"utilization":      52,
		"qualityRate":      90.5,
		"defectRate":       5.5,
		"energyEfficiency": 21,
		"oee":              42,
	}
	result, err := cal.Evaluate(poor)
	require.NoError(t, err)

	assert.Equal(t, score.TierPoor, result.Tier)
	require.NotEmpty(t, result.Recommendations)

	var hasGeneral bool
	for _, r := range result.Recommendations {
		if r.Category == "general" {
			hasGeneral = true
		}
	}
	assert.True(t, hasGeneral, "below-benchmark operations get the prioritization advice")
}

func TestCalculator_Evaluate_GapTableCoversHeadlineMetrics(t *testing.T) {
	cal, err := New(MachineFiber)
	require.NoError(t, err)

	result, err := cal.Evaluate(fiberOperation())
	require.NoError(t, err)

	ids := make([]string, 0, len(result.Gaps))
	for _, g := range result.Gaps {
		ids = append(ids, g.MetricID)
	}
	assert.Equal(t, []string{"throughput", "qualityRate", "oee"}, ids,
		"gap analysis reports the headline metrics only")
}

func TestCalculator_Evaluate_QualityDefectContradiction(t *testing.T) {
	cal, err := New(MachineFiber)
	require.NoError(t, err)

	rec := fiberOperation()
	rec["qualityRate"] = 99
	rec["defectRate"] = 6
	result, err := cal.Evaluate(rec)
	require.NoError(t, err)

	require.NotEmpty(t, result.Warnings)
	assert.Equal(t, "quality_defect_contradiction", result.Warnings[0].Code)
}

func TestCalculator_Evaluate_UtilizationHoursContradiction(t *testing.T) {
	cal, err := New(MachineFiber)
	require.NoError(t, err)

	rec := fiberOperation()
	rec["utilization"] = 96
	rec["operatingHours"] = 6
	result, err := cal.Evaluate(rec)
	require.NoError(t, err)

	codes := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, "utilization_hours_contradiction")

	// Without operating hours the heuristic cannot fire.
	rec = fiberOperation()
	rec["utilization"] = 96
	result, err = cal.Evaluate(rec)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestCalculator_Evaluate_PercentileBounded(t *testing.T) {
	cal, err := New(MachineFiber)
	require.NoError(t, err)

	result, err := cal.Evaluate(fiberOperation())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Percentile, 0.0)
	assert.LessOrEqual(t, result.Percentile, 100.0)
}

func TestCalculator_Evaluate_Idempotent(t *testing.T) {
	cal, err := New(MachineFiber)
	require.NoError(t, err)

	first, err := cal.Evaluate(fiberOperation())
	require.NoError(t, err)
	second, err := cal.Evaluate(fiberOperation())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculator_EvaluateMany_Ranks(t *testing.T) {
	cal, err := New(MachineFiber)
	require.NoError(t, err)

	strong := fiberOperation()
	strong["throughput"] = 110
	strong["oee"] = 80
	strong["name"] = "line-a"
	weak := fiberOperation()
	weak["throughput"] = 30
	weak["name"] = "line-b"

	ranking, err := cal.EvaluateMany([]input.Record{weak, strong})
	require.NoError(t, err)
	assert.Equal(t, "line-a", ranking.Results[0].ID)
	assert.Equal(t, 1, ranking.Results[0].Rank)
}

func TestNew_UnknownMachineType(t *testing.T) {
	_, err := New("plasma")
	assert.Error(t, err)
}

func TestNewCustom_WeightOverride(t *testing.T) {
	cal, err := NewCustom(MachineFiber, score.Weights{"throughput": 100}, nil, nil)
	require.NoError(t, err)

	rec := fiberOperation()
	rec["throughput"] = 120
	result, err := cal.Evaluate(rec)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Overall, "a single-metric weight vector scores that metric alone")
	assert.Equal(t, score.TierExcellent, result.Tier)
}
