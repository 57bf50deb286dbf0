package recommend

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	"lasercalc/internal/input"
	"lasercalc/internal/metric"
)

// Recommendation priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Recommendation is one piece of deterministic advice derived from the
// classified tier and the sub-score vector. No randomness, no external
// state: identical evaluations produce identical recommendation lists.
type Recommendation struct {
	Text     string `json:"text"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// Rule is one entry of the recommendation rule table. The When field is a
// CEL expression over the recommendation environment:
//
//	tier    string                     — classified tier label
//	overall double                     — composite score
//	sub     map[string]double          — normalized sub-scores by metric id
//	value   map[string]double          — raw input values by metric id
//
// When the condition holds, the rule contributes one recommendation. The
// {metric} placeholder in Text is replaced with the display name of the
// metric named in the Metric field.
type Rule struct {
	When     string `yaml:"when"`
	Metric   string `yaml:"metric"`
	Category string `yaml:"category"`
	Priority string `yaml:"priority"`
	Text     string `yaml:"text"`

	program cel.Program
}

// Init compiles the When expression against the recommendation environment.
func (r *Rule) Init(env *cel.Env) error {
	ast, iss := env.Parse(r.When)
	if iss.Err() != nil {
		return iss.Err()
	}
	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return iss.Err()
	}
	var err error
	r.program, err = env.Program(checked)
	return err
}

// NewEnv builds the CEL environment recommendation rules are compiled
// against.
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("tier", cel.StringType),
		cel.Variable("overall", cel.DoubleType),
		cel.Variable("sub", cel.MapType(cel.StringType, cel.DoubleType)),
		cel.Variable("value", cel.MapType(cel.StringType, cel.DoubleType)),
	)
}

// Generator evaluates a fixed rule table and guarantees at least one
// recommendation per call.
type Generator struct {
	rules []Rule
}

// NewGenerator parses a YAML rule table and compiles every rule.
func NewGenerator(content []byte) (*Generator, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}
	var rules []Rule
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return nil, fmt.Errorf("error parsing recommendation rules: %w", err)
	}
	for i := range rules {
		if err := rules[i].Init(env); err != nil {
			return nil, fmt.Errorf("recommendation rule %d: %w", i, err)
		}
	}
	return &Generator{rules: rules}, nil
}

// Recommend evaluates every rule in declaration order against the tier,
// composite score, sub-scores and raw values. Rules whose condition fails
// or errors contribute nothing. If no rule fires, a generic consistent-
// performance message is returned, so the result always carries at least
// one recommendation.
func (g *Generator) Recommend(tier string, overall float64, sub map[string]float64, rec input.Record, defs metric.Set) []Recommendation {
	values := make(map[string]float64, len(defs))
	for i := range defs {
		if v, ok := rec.Number(defs[i].ID); ok {
			values[defs[i].ID] = v
		}
	}
	activation := map[string]any{
		"tier":    tier,
		"overall": overall,
		"sub":     sub,
		"value":   values,
	}

	var out []Recommendation
	for i := range g.rules {
		r := &g.rules[i]
		result, _, err := r.program.Eval(activation)
		if err != nil || result.Value() == false {
			continue
		}
		text := r.Text
		if r.Metric != "" {
			name := r.Metric
			if d, ok := defs.ByID(r.Metric); ok && d.Name != "" {
				name = d.Name
			}
			text = strings.ReplaceAll(text, "{metric}", name)
		}
		out = append(out, Recommendation{Text: text, Category: r.Category, Priority: r.Priority})
	}
	if len(out) == 0 {
		out = append(out, Recommendation{
			Text:     "Performance is consistent across all evaluated metrics; maintain current operating parameters.",
			Category: "general",
			Priority: PriorityLow,
		})
	}
	return out
}
