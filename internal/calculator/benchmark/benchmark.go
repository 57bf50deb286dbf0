// Package benchmark rates the performance of a laser cutting operation
// against reference figures for its machine class.
//
// Every metric is normalized against the class benchmark triple: the Low
// reference scores 0, the High reference scores 100. The weighted composite
// is graded on the excellent/good/average/below_average/poor scale, and the
// headline metrics get a gap-to-best-in-class table.
package benchmark

import (
	"fmt"

	"lasercalc/internal/calculator"
	"lasercalc/internal/input"
	"lasercalc/internal/metric"
	"lasercalc/internal/score"
)

// Supported machine classes.
const (
	MachineFiber      = "fiber"
	MachineCO2        = "co2"
	MachineSolidState = "solid_state"
)

// throughputTriples carry the only class-specific references; the
// percentage metrics share one triple across classes.
var throughputTriples = map[string]metric.Triple{
	MachineFiber:      {Low: 20, Average: 60, High: 120},
	MachineCO2:        {Low: 10, Average: 35, High: 80},
	MachineSolidState: {Low: 5, Average: 20, High: 45},
}

func classMetrics(machineType string) (metric.Set, error) {
	throughput, ok := throughputTriples[machineType]
	if !ok {
		return nil, fmt.Errorf("benchmark: unknown machine type '%s'", machineType)
	}
	return metric.Set{
		{ID: "throughput", Name: "Throughput", Unit: "parts/h", Min: 0, Max: 1000, Direction: metric.DirectionHigher, Benchmark: &throughput, Headline: true},
		{ID: "utilization", Name: "Utilization", Unit: "%", Min: 0, Max: 100, Direction: metric.DirectionHigher, Benchmark: &metric.Triple{Low: 50, Average: 70, High: 90}},
		{ID: "qualityRate", Name: "Quality rate", Unit: "%", Min: 0, Max: 100, Direction: metric.DirectionHigher, Benchmark: &metric.Triple{Low: 90, Average: 95, High: 99}, Headline: true},
		{ID: "defectRate", Name: "Defect rate", Unit: "%", Min: 0, Max: 100, Direction: metric.DirectionLower, Benchmark: &metric.Triple{Low: 0.5, Average: 2.5, High: 6}},
		{ID: "energyEfficiency", Name: "Energy efficiency", Unit: "%", Min: 0, Max: 100, Direction: metric.DirectionHigher, Benchmark: &metric.Triple{Low: 20, Average: 35, High: 50}},
		{ID: "oee", Name: "Overall equipment effectiveness", Unit: "%", Min: 0, Max: 100, Direction: metric.DirectionHigher, Benchmark: &metric.Triple{Low: 40, Average: 60, High: 85}, Headline: true},
	}, nil
}

// contextMetrics are range-checked and visible to heuristics but not
// scored.
var contextMetrics = metric.Set{
	{ID: "operatingHours", Name: "Operating hours per day", Unit: "h", Min: 0, Max: 24, Direction: metric.DirectionHigher, ReferenceMax: 24, Optional: true},
}

var weights = score.Weights{
	"throughput":       25,
	"qualityRate":      20,
	"oee":              20,
	"utilization":      15,
	"defectRate":       10,
	"energyEfficiency": 10,
}

const heuristicScript = `
- when: "qualityRate + defectRate > 103.0"
  field: defectRate
  code: quality_defect_contradiction
  message: quality rate and defect rate together exceed 100%; one of them is misreported
- when: "utilization > 95.0 && operatingHours < 8.0"
  field: utilization
  code: utilization_hours_contradiction
  message: near-total utilization is implausible on a short operating day
`

const recommendationScript = `
- when: "sub['throughput'] < 50.0"
  metric: throughput
  category: throughput
  priority: high
  text: "{metric} sits in the lower half of the class benchmark; review nesting and material handling."
- when: "sub['qualityRate'] < 50.0"
  metric: qualityRate
  category: quality
  priority: high
  text: "{metric} is below the class average; tighten focus calibration and gas purity."
- when: "sub['oee'] < 50.0"
  metric: oee
  category: effectiveness
  priority: medium
  text: "{metric} lags the class average; availability losses usually dominate, start there."
- when: "tier == 'below_average' || tier == 'poor'"
  category: general
  priority: high
  text: "Overall performance is below the class benchmark; prioritize the weakest metrics first."
- when: "tier == 'excellent' && sub['energyEfficiency'] < 60.0"
  metric: energyEfficiency
  category: energy
  priority: low
  text: "Strong overall rating; {metric} is the remaining improvement lever."
`

// Result augments the composite result with the benchmarking context.
type Result struct {
	*score.CompositeResult
	// MachineType — the class the operation was benchmarked against.
	MachineType string `json:"machineType"`
	// Percentile — share of sub-scores at or below the composite, an
	// indication of how evenly the operation performs across metrics.
	Percentile float64 `json:"percentile"`
}

// Calculator benchmarks operations of one machine class.
type Calculator struct {
	machineType string
	inner       *calculator.Calculator
}

// New builds a benchmarking calculator for the given machine class with
// the built-in tables.
func New(machineType string) (*Calculator, error) {
	return NewCustom(machineType, nil, nil, nil)
}

// NewCustom builds the calculator with caller-supplied weight, heuristic
// and recommendation tables. Nil keeps the corresponding built-in.
func NewCustom(machineType string, customWeights score.Weights, heuristicYAML, ruleYAML []byte) (*Calculator, error) {
	defs, err := classMetrics(machineType)
	if err != nil {
		return nil, err
	}
	w := weights
	if customWeights != nil {
		w = customWeights
	}
	if heuristicYAML == nil {
		heuristicYAML = []byte(heuristicScript)
	}
	if ruleYAML == nil {
		ruleYAML = []byte(recommendationScript)
	}
	scale, err := score.ByLowerBound([]score.Band{
		{Bound: 90, Tier: score.TierExcellent},
		{Bound: 80, Tier: score.TierGood},
		{Bound: 70, Tier: score.TierAverage},
		{Bound: 60, Tier: score.TierBelowAverage},
	}, score.TierPoor)
	if err != nil {
		return nil, err
	}
	inner, err := calculator.New(calculator.Config{
		Name:         "benchmark",
		Metrics:      defs,
		Context:      contextMetrics,
		Categoricals: []string{"name"},
		Weights:      w,
		Scale:        scale,
		Heuristics:   heuristicYAML,
		Rules:        ruleYAML,
	})
	if err != nil {
		return nil, err
	}
	return &Calculator{machineType: machineType, inner: inner}, nil
}

// Evaluate benchmarks a single operation record.
func (c *Calculator) Evaluate(rec input.Record) (*Result, error) {
	composite, err := c.inner.Evaluate(rec)
	if err != nil {
		return nil, err
	}
	return &Result{
		CompositeResult: composite,
		MachineType:     c.machineType,
		Percentile:      percentile(composite),
	}, nil
}

// EvaluateMany benchmarks several operations and ranks them.
func (c *Calculator) EvaluateMany(recs []input.Record) (*score.Ranking, error) {
	return c.inner.EvaluateMany(recs)
}

func percentile(r *score.CompositeResult) float64 {
	if len(r.SubScores) == 0 {
		return 0
	}
	below := 0
	for _, s := range r.SubScores {
		if s <= r.Overall {
			below++
		}
	}
	return float64(below) / float64(len(r.SubScores)) * 100
}
