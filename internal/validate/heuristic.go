package validate

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"
)

// Heuristic is one cross-field consistency rule. The When field contains a
// CEL expression over the calculator's input environment; the remaining
// fields describe the warning emitted when it fires. The CEL program is
// compiled once in Init and reused for every evaluation.
//
// Heuristics never block computation: a true condition produces a Warning,
// a false condition or an evaluation error produces nothing.
type Heuristic struct {
	// When — CEL expression defining the trigger condition.
	// Must return a boolean value.
	When string `yaml:"when"`
	// Field — the input field the warning is attributed to.
	Field string `yaml:"field"`
	// Code — stable warning code for programmatic handling.
	Code string `yaml:"code"`
	// Message — warning text shown to the user.
	Message string `yaml:"message"`
	// program — compiled CEL program used to execute the condition.
	program cel.Program
}

// Init compiles the When expression into an executable CEL program using
// the provided environment. Syntax and semantic errors are returned as is.
func (h *Heuristic) Init(env *cel.Env) error {
	ast, iss := env.Parse(h.When)
	if iss.Err() != nil {
		return iss.Err()
	}
	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return iss.Err()
	}
	var err error
	h.program, err = env.Program(checked)
	return err
}

// Eval executes the compiled condition against the activation map.
// Returns the warning and true if the condition held. Evaluation errors
// (typically a field absent from the record) count as no-match so one
// malformed rule cannot abort the pipeline.
func (h *Heuristic) Eval(activation map[string]any) (Warning, bool) {
	result, _, err := h.program.Eval(activation)
	if err != nil || result.Value() == false {
		return Warning{}, false
	}
	return Warning{Field: h.Field, Code: h.Code, Message: h.Message}, true
}

// LoadHeuristics parses a YAML list of heuristics and compiles each against
// the environment.
//
// The expected format:
//
//   - when: "length / width > 15.0"
//     field: width
//     code: high_aspect_ratio
//     message: high aspect ratio increases warping risk
func LoadHeuristics(content []byte, env *cel.Env) ([]Heuristic, error) {
	var heuristics []Heuristic
	if err := yaml.Unmarshal(content, &heuristics); err != nil {
		return nil, fmt.Errorf("error parsing heuristics: %w", err)
	}
	for i := range heuristics {
		if err := heuristics[i].Init(env); err != nil {
			return nil, fmt.Errorf("heuristic %q: %w", heuristics[i].Code, err)
		}
	}
	return heuristics, nil
}
