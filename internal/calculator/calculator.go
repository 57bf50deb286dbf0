// Package calculator wires the scoring pipeline together: validation,
// normalization, weighted composition, classification and recommendation
// generation. Each concrete calculator instance supplies its metric
// definitions, weight vector, tier scale and rule tables; the pipeline
// itself is shared.
package calculator

import (
	"errors"
	"fmt"

	"lasercalc/internal/input"
	"lasercalc/internal/metric"
	"lasercalc/internal/recommend"
	"lasercalc/internal/score"
	"lasercalc/internal/validate"
)

// Config describes one calculator instance.
type Config struct {
	// Name — calculator identifier, used in error messages.
	Name string
	// Metrics — the metric definition set evaluated records must satisfy.
	Metrics metric.Set
	// Context — numeric fields that are range-checked and exposed to
	// heuristics but never normalized or scored. Typically optional.
	Context metric.Set
	// Categoricals — names of string context fields exposed to heuristics.
	Categoricals []string
	// Weights — relative metric weights for the composite score.
	Weights score.Weights
	// Scale — tier classification table for the published score.
	Scale *score.Scale
	// Heuristics — YAML consistency rules compiled at construction.
	// Optional.
	Heuristics []byte
	// Rules — YAML recommendation rule table. Optional; without it only
	// the generic fallback recommendation is produced.
	Rules []byte
	// StrengthCount and WeaknessCount size the derived strength and
	// weakness lists. Defaults: top 3 and bottom 2.
	StrengthCount int
	WeaknessCount int
	// Adjust optionally transforms the [0,100] composite into the
	// calculator's published scale (mitigation factors, 0-10 risk scale)
	// before classification. The identity is used when nil.
	Adjust func(rec input.Record, composite float64) float64
}

// Calculator is a ready-to-use evaluation pipeline. All state is immutable
// after New; evaluations are pure functions of their input record, so a
// single instance may serve any number of concurrent callers.
type Calculator struct {
	name          string
	defs          metric.Set
	all           metric.Set
	categoricals  []string
	weights       score.Weights
	scale         *score.Scale
	heuristics    []validate.Heuristic
	generator     *recommend.Generator
	strengthCount int
	weaknessCount int
	adjust        func(input.Record, float64) float64
}

// New builds a calculator from its configuration: validates the metric set
// and weights, compiles heuristic and recommendation rules.
func New(cfg Config) (*Calculator, error) {
	all := make(metric.Set, 0, len(cfg.Metrics)+len(cfg.Context))
	all = append(all, cfg.Metrics...)
	all = append(all, cfg.Context...)
	if err := all.Validate(); err != nil {
		return nil, err
	}
	if cfg.Scale == nil {
		return nil, errors.New(cfg.Name + ": scale must be specified")
	}
	positive := false
	for id, w := range cfg.Weights {
		if w < 0 {
			return nil, fmt.Errorf("%s: negative weight for %s", cfg.Name, id)
		}
		if w > 0 {
			positive = true
		}
	}
	if !positive {
		return nil, errors.New(cfg.Name + ": weights must contain at least one positive entry")
	}

	c := Calculator{
		name:          cfg.Name,
		defs:          cfg.Metrics,
		all:           all,
		categoricals:  cfg.Categoricals,
		weights:       cfg.Weights,
		scale:         cfg.Scale,
		strengthCount: cfg.StrengthCount,
		weaknessCount: cfg.WeaknessCount,
		adjust:        cfg.Adjust,
	}
	if c.strengthCount == 0 {
		c.strengthCount = 3
	}
	if c.weaknessCount == 0 {
		c.weaknessCount = 2
	}

	if len(cfg.Heuristics) > 0 {
		env, err := input.NewEnv(all, cfg.Categoricals)
		if err != nil {
			return nil, err
		}
		c.heuristics, err = validate.LoadHeuristics(cfg.Heuristics, env)
		if err != nil {
			return nil, err
		}
	}
	rules := cfg.Rules
	if len(rules) == 0 {
		rules = []byte("[]")
	}
	gen, err := recommend.NewGenerator(rules)
	if err != nil {
		return nil, err
	}
	c.generator = gen
	return &c, nil
}

// Validate runs range checks and consistency heuristics without scoring.
// Range violations are hard errors; heuristic findings are warnings.
func (c *Calculator) Validate(rec input.Record) validate.Result {
	result := validate.Result{Errors: validate.RangeErrors(rec, c.all)}
	activation := input.Activation(rec, c.all, c.categoricals)
	for i := range c.heuristics {
		if w, ok := c.heuristics[i].Eval(activation); ok {
			result.Warnings = append(result.Warnings, w)
		}
	}
	return result
}

// Evaluate scores a single record.
//
// Order of operations: range validation (fail fast — all violations are
// joined into one error and nothing is scored), normalization of every
// metric, weighted composition, the optional scale adjustment,
// classification, strength/weakness derivation, recommendations and the
// gap table. Consistency warnings never block; they are attached to the
// result.
//
// Evaluate is deterministic: identical records yield identical results.
func (c *Calculator) Evaluate(rec input.Record) (*score.CompositeResult, error) {
	validation := c.Validate(rec)
	if !validation.OK() {
		return nil, errors.Join(validation.Errors...)
	}

	sub := make(score.SubScores, len(c.defs))
	for i := range c.defs {
		d := &c.defs[i]
		v, ok := rec.Number(d.ID)
		if !ok {
			// Absent optional metric: no sub-score, and the composite
			// renormalizes over the weights actually applied.
			continue
		}
		sub[d.ID] = d.Normalize(v)
	}

	composite, err := score.Composite(sub, c.weights)
	if err != nil {
		return nil, err
	}
	overall := composite
	if c.adjust != nil {
		overall = c.adjust(rec, composite)
	}

	result := score.CompositeResult{
		Overall:    overall,
		Tier:       c.scale.Classify(overall),
		SubScores:  sub,
		Strengths:  score.TopMetrics(sub, c.strengthCount, true),
		Weaknesses: score.TopMetrics(sub, c.weaknessCount, false),
		Warnings:   validation.Warnings,
		Gaps:       recommend.Gaps(rec, c.defs),
	}
	if name, ok := rec.Category("name"); ok {
		result.ID = name
	}
	result.Recommendations = c.generator.Recommend(string(result.Tier), overall, sub, rec, c.defs)
	return &result, nil
}

// EvaluateMany scores every record and ranks the results by composite
// score. A failure on any record aborts the batch; the error names the
// offending position.
func (c *Calculator) EvaluateMany(recs []input.Record) (*score.Ranking, error) {
	results := make([]*score.CompositeResult, 0, len(recs))
	for i, rec := range recs {
		r, err := c.Evaluate(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", c.name, i, err)
		}
		results = append(results, r)
	}
	return score.Rank(results), nil
}
