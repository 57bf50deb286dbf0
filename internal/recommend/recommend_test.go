package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lasercalc/internal/input"
	"lasercalc/internal/metric"
)

func benchmarkDefs() metric.Set {
	return metric.Set{
		{ID: "throughput", Name: "Throughput", Min: 0, Max: 1000, Direction: metric.DirectionHigher,
			Benchmark: &metric.Triple{Low: 20, Average: 60, High: 120}, Headline: true},
		{ID: "qualityRate", Name: "Quality rate", Min: 0, Max: 100, Direction: metric.DirectionHigher,
			Benchmark: &metric.Triple{Low: 90, Average: 95, High: 99}},
		{ID: "defectRate", Name: "Defect rate", Min: 0, Max: 100, Direction: metric.DirectionLower,
			Benchmark: &metric.Triple{Low: 0.5, Average: 2.5, High: 6}, Headline: true},
	}
}

func TestGenerator_Recommend_RuleFires(t *testing.T) {
	const script = `
- when: "sub['throughput'] < 50.0"
  metric: throughput
  category: throughput
  priority: high
  text: "{metric} is below the class average."
`
	gen, err := NewGenerator([]byte(script))
	require.NoError(t, err)

	rec := input.Record{"throughput": 30}
	out := gen.Recommend("average", 72, map[string]float64{"throughput": 20}, rec, benchmarkDefs())

	require.Len(t, out, 1)
	assert.Equal(t, "Throughput is below the class average.", out[0].Text, "metric placeholder uses the display name")
	assert.Equal(t, "throughput", out[0].Category)
	assert.Equal(t, PriorityHigh, out[0].Priority)
}

func TestGenerator_Recommend_TierCondition(t *testing.T) {
	const script = `
- when: "tier == 'poor'"
  category: general
  priority: high
  text: "Overall performance is poor."
- when: "tier == 'excellent'"
  category: general
  priority: low
  text: "Keep it up."
`
	gen, err := NewGenerator([]byte(script))
	require.NoError(t, err)

	out := gen.Recommend("poor", 40, map[string]float64{}, input.Record{}, benchmarkDefs())
	require.Len(t, out, 1)
	assert.Equal(t, "Overall performance is poor.", out[0].Text)
}

func TestGenerator_Recommend_RawValueCondition(t *testing.T) {
	const script = `
- when: "value['defectRate'] > 5.0"
  metric: defectRate
  category: quality
  priority: high
  text: "{metric} is far above benchmark."
`
	gen, err := NewGenerator([]byte(script))
	require.NoError(t, err)

	rec := input.Record{"defectRate": 5.5}
	out := gen.Recommend("average", 70, map[string]float64{"defectRate": 10}, rec, benchmarkDefs())
	require.Len(t, out, 1)
	assert.Equal(t, "Defect rate is far above benchmark.", out[0].Text)
}

func TestGenerator_Recommend_FallbackWhenNothingFires(t *testing.T) {
	const script = `
- when: "tier == 'poor'"
  category: general
  priority: high
  text: "Overall performance is poor."
`
	gen, err := NewGenerator([]byte(script))
	require.NoError(t, err)

	out := gen.Recommend("good", 85, map[string]float64{"throughput": 80}, input.Record{"throughput": 100}, benchmarkDefs())
	require.Len(t, out, 1, "generation always yields at least one recommendation")
	assert.Equal(t, "general", out[0].Category)
	assert.Equal(t, PriorityLow, out[0].Priority)
}

func TestGenerator_Recommend_Deterministic(t *testing.T) {
	const script = `
- when: "sub['throughput'] < 50.0"
  metric: throughput
  category: throughput
  priority: high
  text: "{metric} lags."
- when: "overall < 75.0"
  category: general
  priority: medium
  text: "Room to improve."
`
	gen, err := NewGenerator([]byte(script))
	require.NoError(t, err)

	rec := input.Record{"throughput": 30}
	sub := map[string]float64{"throughput": 10}
	first := gen.Recommend("average", 70, sub, rec, benchmarkDefs())
	second := gen.Recommend("average", 70, sub, rec, benchmarkDefs())
	assert.Equal(t, first, second)
	assert.Len(t, first, 2, "rules fire in declaration order")
}

func TestNewGenerator_BadExpression(t *testing.T) {
	_, err := NewGenerator([]byte(`[{when: "nonsense ==", text: x}]`))
	assert.Error(t, err)
}

func TestGaps_HeadlineMetricsOnly(t *testing.T) {
	rec := input.Record{"throughput": 90, "qualityRate": 95, "defectRate": 2}
	gaps := Gaps(rec, benchmarkDefs())

	require.Len(t, gaps, 2, "only headline metrics are reported")
	assert.Equal(t, "throughput", gaps[0].MetricID)
	assert.Equal(t, 120.0, gaps[0].Benchmark)
	assert.Equal(t, 30.0, gaps[0].Gap)
	assert.Equal(t, 25.0, gaps[0].GapPercent)
}

func TestGaps_LowerIsBetterMeasuresDownToLow(t *testing.T) {
	rec := input.Record{"throughput": 120, "defectRate": 2}
	gaps := Gaps(rec, benchmarkDefs())

	require.Len(t, gaps, 2)
	defect := gaps[1]
	assert.Equal(t, "defectRate", defect.MetricID)
	assert.Equal(t, 0.5, defect.Benchmark)
	assert.Equal(t, 1.5, defect.Gap)
}

func TestGaps_AtOrBeyondBenchmarkIsZero(t *testing.T) {
	rec := input.Record{"throughput": 150, "defectRate": 0.2}
	gaps := Gaps(rec, benchmarkDefs())

	require.Len(t, gaps, 2)
	assert.Equal(t, 0.0, gaps[0].Gap)
	assert.Equal(t, 0.0, gaps[0].GapPercent)
	assert.Equal(t, 0.0, gaps[1].Gap)
}
