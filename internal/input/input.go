package input

import (
	"lasercalc/internal/metric"

	"github.com/google/cel-go/cel"
)

// Record is one measured entity: metric values keyed by metric identifier
// plus categorical context fields (material type, machine type and the like)
// as strings. Records are supplied by the caller and never mutated by the
// scoring pipeline.
type Record map[string]any

// Number reads a metric value from the record, coercing the numeric types
// YAML and JSON decoders commonly produce.
func (r Record) Number(id string) (float64, bool) {
	v, ok := r[id]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}

// Category reads a categorical field from the record.
func (r Record) Category(name string) (string, bool) {
	v, ok := r[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// NewEnv builds the CEL environment rule scripts are compiled against:
// one DoubleType variable per metric definition and one StringType variable
// per categorical field. Scripts reference fields by metric id, e.g.
// "length / width > 15.0".
func NewEnv(defs metric.Set, categoricals []string) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(defs)+len(categoricals))
	for i := range defs {
		opts = append(opts, cel.Variable(defs[i].ID, cel.DoubleType))
	}
	for _, name := range categoricals {
		opts = append(opts, cel.Variable(name, cel.StringType))
	}
	return cel.NewEnv(opts...)
}

// Activation converts a record into the CEL activation map for the
// environment built by NewEnv. Metric values are coerced to float64;
// fields absent from the record are left undeclared, which makes rules
// referencing them evaluate with an error and count as no-match.
func Activation(rec Record, defs metric.Set, categoricals []string) map[string]any {
	act := make(map[string]any, len(defs)+len(categoricals))
	for i := range defs {
		if v, ok := rec.Number(defs[i].ID); ok {
			act[defs[i].ID] = v
		}
	}
	for _, name := range categoricals {
		if s, ok := rec.Category(name); ok {
			act[name] = s
		}
	}
	return act
}
