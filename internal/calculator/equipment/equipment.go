// Package equipment compares laser cutting machines across cost and
// performance criteria.
//
// Normalization is set-relative: every metric is scored as a capped ratio
// against the best value among the compared options, so a score of 100
// always means "best in this comparison", not "best on the market". The
// weight vector is selected by priority mode; named selections (best value,
// best budget, best performance) are secondary sorts over the same results
// and may disagree with the primary ranking.
package equipment

import (
	"errors"
	"fmt"

	"lasercalc/internal/calculator"
	"lasercalc/internal/input"
	"lasercalc/internal/metric"
	"lasercalc/internal/score"
)

// Priority modes selecting the weight vector.
const (
	ModeBalanced    = "balanced"
	ModeCost        = "cost"
	ModePerformance = "performance"
)

// baseMetrics describe the compared criteria. ReferenceMax is filled in
// per comparison from the best value in the candidate set.
var baseMetrics = metric.Set{
	{ID: "purchasePrice", Name: "Purchase price", Unit: "USD", Min: 1000, Max: 5000000, Direction: metric.DirectionLower},
	{ID: "maintenanceCost", Name: "Annual maintenance cost", Unit: "USD/year", Min: 0, Max: 500000, Direction: metric.DirectionLower},
	{ID: "powerConsumption", Name: "Power consumption", Unit: "kW", Min: 0.5, Max: 500, Direction: metric.DirectionLower},
	{ID: "laserPower", Name: "Laser power", Unit: "W", Min: 100, Max: 30000, Direction: metric.DirectionHigher},
	{ID: "cuttingSpeed", Name: "Max cutting speed", Unit: "mm/min", Min: 100, Max: 60000, Direction: metric.DirectionHigher},
	{ID: "maxThickness", Name: "Max sheet thickness", Unit: "mm", Min: 0.5, Max: 100, Direction: metric.DirectionHigher},
}

var weightModes = map[string]score.Weights{
	ModeBalanced: {
		"purchasePrice":    20,
		"maintenanceCost":  15,
		"powerConsumption": 15,
		"laserPower":       20,
		"cuttingSpeed":     15,
		"maxThickness":     15,
	},
	ModeCost: {
		"purchasePrice":    30,
		"maintenanceCost":  20,
		"powerConsumption": 15,
		"laserPower":       15,
		"cuttingSpeed":     10,
		"maxThickness":     10,
	},
	ModePerformance: {
		"purchasePrice":    10,
		"maintenanceCost":  10,
		"powerConsumption": 10,
		"laserPower":       30,
		"cuttingSpeed":     25,
		"maxThickness":     15,
	},
}

const heuristicScript = `
- when: "maintenanceCost > purchasePrice * 0.1"
  field: maintenanceCost
  code: high_maintenance_ratio
  message: annual maintenance exceeds 10% of the purchase price
- when: "laserPower > 6000.0 && powerConsumption < 10.0"
  field: powerConsumption
  code: implausible_consumption
  message: stated power consumption looks too low for the rated laser power
`

const recommendationScript = `
- when: "sub['purchasePrice'] < 50.0"
  metric: purchasePrice
  category: cost
  priority: medium
  text: "{metric} is far above the cheapest candidate; negotiate or consider the budget pick."
- when: "sub['laserPower'] < 50.0"
  metric: laserPower
  category: performance
  priority: medium
  text: "{metric} trails the strongest candidate; check whether your materials need it."
- when: "tier == 'excellent'"
  category: general
  priority: low
  text: "Leading candidate across the weighted criteria; shortlist for a demo cut."
`

// Compare evaluates every option under the given priority mode and returns
// the primary ranking with named selections filled in.
//
// Each option record must carry a "name" field plus all compared metrics.
// Options are scored independently; ties keep their input order.
func Compare(options []input.Record, mode string) (*score.Ranking, error) {
	weights, ok := weightModes[mode]
	if !ok {
		return nil, fmt.Errorf("equipment: unknown priority mode '%s'", mode)
	}
	return CompareWeighted(options, weights)
}

// CompareWeighted evaluates the options under a caller-supplied weight
// vector instead of a named priority mode.
func CompareWeighted(options []input.Record, weights score.Weights) (*score.Ranking, error) {
	if len(options) < 2 {
		return nil, errors.New("equipment: at least two options are required")
	}

	defs, err := referencedMetrics(options)
	if err != nil {
		return nil, err
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

	cal, err := calculator.New(calculator.Config{
		Name:          "equipment",
		Metrics:       defs,
		Categoricals:  []string{"name"},
		Weights:       weights,
		Scale:         scale,
		Heuristics:    []byte(heuristicScript),
		Rules:         []byte(recommendationScript),
		StrengthCount: 3,
		WeaknessCount: 2,
	})
	if err != nil {
		return nil, err
	}

	results := make([]*score.CompositeResult, 0, len(options))
	prices := make(map[*score.CompositeResult]float64, len(options))
	powers := make(map[*score.CompositeResult]float64, len(options))
	for i, opt := range options {
		r, err := cal.Evaluate(opt)
		if err != nil {
			return nil, fmt.Errorf("equipment: option %d: %w", i, err)
		}
		price, _ := opt.Number("purchasePrice")
		power, _ := opt.Number("laserPower")
		prices[r] = price
		powers[r] = power
		results = append(results, r)
	}

	ranking := score.Rank(results)
	ranking.BestOverall = ranking.Results[0].ID

	// Each selection sorts a fresh copy; the primary ranking above is
	// never touched again.
	ranking.BestValue = score.SelectBy(results, func(a, b *score.CompositeResult) bool {
		return valueRatio(a, prices) > valueRatio(b, prices)
	})
	ranking.BestBudget = score.SelectBy(results, func(a, b *score.CompositeResult) bool {
		return prices[a] < prices[b]
	})
	ranking.BestPerformance = score.SelectBy(results, func(a, b *score.CompositeResult) bool {
		return powers[a] > powers[b]
	})
	return ranking, nil
}

// valueRatio is the composite score per 10k price units: the "performance
// for the money" criterion behind the best-value selection.
func valueRatio(r *score.CompositeResult, prices map[*score.CompositeResult]float64) float64 {
	price := prices[r]
	if price <= 0 {
		return 0
	}
	return r.Overall / (price / 10000)
}

// referencedMetrics copies the base metric set with each ReferenceMax set
// to the best value among the options: the minimum for lower-is-better
// metrics, the maximum otherwise.
func referencedMetrics(options []input.Record) (metric.Set, error) {
	defs := make(metric.Set, len(baseMetrics))
	copy(defs, baseMetrics)
	for i := range defs {
		d := &defs[i]
		best := 0.0
		found := false
		for _, opt := range options {
			v, ok := opt.Number(d.ID)
			if !ok {
				continue
			}
			if !found {
				best = v
				found = true
				continue
			}
			if d.Direction == metric.DirectionLower && v < best {
				best = v
			}
			if d.Direction == metric.DirectionHigher && v > best {
				best = v
			}
		}
		if !found {
			return nil, fmt.Errorf("equipment: no option provides metric %s", d.ID)
		}
		d.ReferenceMax = best
	}
	return defs, nil
}
