// Package warping estimates thermal warping risk for a laser cutting job.
//
// Raw job parameters (material, geometry, power, speed) are converted into
// four derived risk metrics, each normalized to a [0,100] risk contribution,
// combined by equal weights and reduced by the mitigation factors of the
// chosen support and cooling setup. The published risk score is on a 0-10
// scale classified as low (<=3), medium (<=6), high (<=8) or critical.
package warping

import (
	"errors"

	"lasercalc/internal/calculator"
	"lasercalc/internal/input"
	"lasercalc/internal/metric"
	"lasercalc/internal/score"
	"lasercalc/internal/validate"
)

// Thermal expansion risk factors per material. Higher means the material
// distorts more under the same heat input.
var materialFactors = map[string]float64{
	"aluminum":        0.85,
	"copper":          0.90,
	"brass":           0.80,
	"titanium":        0.70,
	"stainless_steel": 0.60,
	"mild_steel":      0.50,
}

// defaultMaterialFactor is assumed for materials missing from the table;
// the evaluation still succeeds but carries a warning.
const defaultMaterialFactor = 0.70

// Mitigation multipliers applied to the composite risk before scaling.
var supportFactors = map[string]float64{
	"none":      1.0,
	"minimal":   0.9,
	"moderate":  0.75,
	"extensive": 0.6,
}

var coolingFactors = map[string]float64{
	"none":       1.0,
	"passive":    0.9,
	"active":     0.75,
	"controlled": 0.65,
}

// rawMetrics bound the job parameters accepted from the caller. They are
// range-checked and exposed to heuristics but scored only through the
// derived risk metrics below.
var rawMetrics = metric.Set{
	{ID: "thickness", Name: "Sheet thickness", Unit: "mm", Min: 0.1, Max: 60, Direction: metric.DirectionLower, ReferenceMax: 60},
	{ID: "length", Name: "Part length", Unit: "mm", Min: 1, Max: 12000, Direction: metric.DirectionHigher, ReferenceMax: 12000},
	{ID: "width", Name: "Part width", Unit: "mm", Min: 1, Max: 12000, Direction: metric.DirectionHigher, ReferenceMax: 12000},
	{ID: "laserPower", Name: "Laser power", Unit: "W", Min: 100, Max: 30000, Direction: metric.DirectionHigher, ReferenceMax: 30000},
	{ID: "cuttingSpeed", Name: "Cutting speed", Unit: "mm/min", Min: 10, Max: 20000, Direction: metric.DirectionHigher, ReferenceMax: 20000},
}

// riskMetrics are the derived metrics the composite is built from. For a
// risk score, "higher_is_better" reads as "higher contributes more risk".
var riskMetrics = metric.Set{
	{ID: "material", Name: "Material expansion", Min: 0, Max: 100, Direction: metric.DirectionHigher, ReferenceMax: 100},
	{ID: "thinness", Name: "Sheet thinness", Unit: "mm", Min: 0, Max: 60, Direction: metric.DirectionLower, Benchmark: &metric.Triple{Low: 0.5, Average: 3, High: 12}},
	{ID: "aspect", Name: "Aspect ratio", Min: 0, Max: 12000, Direction: metric.DirectionHigher, Benchmark: &metric.Triple{Low: 1, Average: 5, High: 10}},
	{ID: "heat", Name: "Heat input", Unit: "W·min/mm", Min: 0, Max: 3000, Direction: metric.DirectionHigher, Benchmark: &metric.Triple{Low: 0.5, Average: 2, High: 4}},
}

var riskWeights = score.Weights{
	"material": 25,
	"thinness": 25,
	"aspect":   25,
	"heat":     25,
}

const heuristicScript = `
- when: "length / width > 15.0"
  field: width
  code: high_aspect_ratio
  message: high aspect ratio increases warping risk; consider sectioning the part
- when: "thickness < 1.0 && laserPower > 4000.0"
  field: laserPower
  code: thin_sheet_high_power
  message: thin sheet under high laser power concentrates heat; reduce power or raise speed
- when: "laserPower / cuttingSpeed > 8.0"
  field: cuttingSpeed
  code: excessive_heat_input
  message: heat input per unit length is far above typical cutting regimes
`

const recommendationScript = `
- when: "(tier == 'high' || tier == 'critical') && sub['heat'] > 80.0"
  metric: heat
  category: process
  priority: high
  text: "{metric} dominates the risk; reduce laser power or increase cutting speed."
- when: "(tier == 'high' || tier == 'critical') && sub['aspect'] > 80.0"
  metric: aspect
  category: geometry
  priority: high
  text: "Long narrow parts warp first; nest the part differently or add relief cuts."
- when: "tier != 'low' && sub['thinness'] > 70.0"
  metric: thinness
  category: fixturing
  priority: medium
  text: "Thin stock needs full-bed support; upgrade the support configuration."
- when: "tier == 'medium'"
  category: process
  priority: low
  text: "Risk is moderate; verify flatness on the first article before the production run."
- when: "tier == 'critical'"
  category: process
  priority: high
  text: "Critical warping risk; combine extensive supports with controlled cooling before cutting."
`

// Calculator evaluates warping risk for one job at a time.
type Calculator struct {
	raw        metric.Set
	cats       []string
	heuristics []validate.Heuristic
	inner      *calculator.Calculator
}

// New builds the warping risk calculator with its built-in factor tables
// and rules.
func New() (*Calculator, error) {
	return NewCustom(nil, nil)
}

// NewCustom builds the calculator with caller-supplied YAML heuristic and
// recommendation tables. Nil keeps the built-in table.
func NewCustom(heuristicYAML, ruleYAML []byte) (*Calculator, error) {
	if heuristicYAML == nil {
		heuristicYAML = []byte(heuristicScript)
	}
	if ruleYAML == nil {
		ruleYAML = []byte(recommendationScript)
	}

	cats := []string{"materialType", "supportType", "coolingMethod"}
	env, err := input.NewEnv(rawMetrics, cats)
	if err != nil {
		return nil, err
	}
	heuristics, err := validate.LoadHeuristics(heuristicYAML, env)
	if err != nil {
		return nil, err
	}

	scale, err := score.ByUpperBound([]score.Band{
		{Bound: 3, Tier: score.TierLow},
		{Bound: 6, Tier: score.TierMedium},
		{Bound: 8, Tier: score.TierHigh},
	}, score.TierCritical)
	if err != nil {
		return nil, err
	}

	inner, err := calculator.New(calculator.Config{
		Name:         "warping",
		Metrics:      riskMetrics,
		Categoricals: []string{"materialType", "supportType", "coolingMethod", "name"},
		Weights:      riskWeights,
		Scale:        scale,
		Rules:        ruleYAML,
		Adjust:       adjust,
	})
	if err != nil {
		return nil, err
	}

	return &Calculator{
		raw:        rawMetrics,
		cats:       cats,
		heuristics: heuristics,
		inner:      inner,
	}, nil
}

// adjust applies the mitigation multipliers of the support and cooling
// setup and converts the [0,100] composite to the published 0-10 scale.
func adjust(rec input.Record, composite float64) float64 {
	support, _ := rec.Category("supportType")
	cooling, _ := rec.Category("coolingMethod")
	s, ok := supportFactors[support]
	if !ok {
		s = 1.0
	}
	c, ok := coolingFactors[cooling]
	if !ok {
		c = 1.0
	}
	return composite * s * c / 10
}

// Evaluate computes the warping risk of a single job.
//
// Range violations on the raw parameters abort the evaluation; unknown
// material, support or cooling names do not — they fall back to
// conservative factors and attach a warning.
func (c *Calculator) Evaluate(rec input.Record) (*score.CompositeResult, error) {
	if errs := validate.RangeErrors(rec, c.raw); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	warnings := c.consistencyWarnings(rec)
	derived, factorWarnings := c.derive(rec)
	warnings = append(warnings, factorWarnings...)

	result, err := c.inner.Evaluate(derived)
	if err != nil {
		return nil, err
	}
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

func (c *Calculator) consistencyWarnings(rec input.Record) []validate.Warning {
	activation := input.Activation(rec, c.raw, c.cats)
	var warnings []validate.Warning
	for i := range c.heuristics {
		if w, ok := c.heuristics[i].Eval(activation); ok {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// derive builds the risk metric record from the raw job parameters.
// Mitigation context fields are copied through for the adjust step.
func (c *Calculator) derive(rec input.Record) (input.Record, []validate.Warning) {
	var warnings []validate.Warning

	material, _ := rec.Category("materialType")
	factor, ok := materialFactors[material]
	if !ok {
		factor = defaultMaterialFactor
		warnings = append(warnings, validate.Warning{
			Field:   "materialType",
			Code:    "unknown_material",
			Message: "unknown material '" + material + "'; assuming a conservative expansion factor",
		})
	}

	thickness, _ := rec.Number("thickness")
	length, _ := rec.Number("length")
	width, _ := rec.Number("width")
	power, _ := rec.Number("laserPower")
	speed, _ := rec.Number("cuttingSpeed")

	derived := input.Record{
		"material": factor * 100,
		"thinness": thickness,
		"aspect":   length / width,
		"heat":     power / speed,
	}
	for _, field := range []string{"materialType", "supportType", "coolingMethod", "name"} {
		if v, ok := rec.Category(field); ok {
			derived[field] = v
		}
	}

	if support, _ := rec.Category("supportType"); supportFactors[support] == 0 {
		warnings = append(warnings, validate.Warning{
			Field:   "supportType",
			Code:    "unknown_support",
			Message: "unknown support type '" + support + "'; assuming no support",
		})
	}
	if cooling, _ := rec.Category("coolingMethod"); coolingFactors[cooling] == 0 {
		warnings = append(warnings, validate.Warning{
			Field:   "coolingMethod",
			Code:    "unknown_cooling",
			Message: "unknown cooling method '" + cooling + "'; assuming no cooling",
		})
	}

	return derived, warnings
}
