package metric

import (
	"fmt"
)

const (
	// DirectionHigher marks a metric where larger raw values are better
	// (or, for risk calculators, contribute more risk).
	DirectionHigher = "higher_is_better"
	// DirectionLower marks a metric where smaller raw values are better.
	DirectionLower = "lower_is_better"
)

// Triple holds the {low, average, high} reference points used to normalize
// a raw metric by linear interpolation. Low and High bound the useful range;
// Average marks the midpoint recommendation rules compare against.
type Triple struct {
	Low     float64 `yaml:"low"`
	Average float64 `yaml:"average"`
	High    float64 `yaml:"high"`
}

// Definition is the static descriptor of a single metric: identity, valid
// range, direction, and the reference data the normalizer works against.
// A definition carries either a Benchmark triple (interpolation mode) or a
// ReferenceMax (capped ratio mode), never both.
//
// Definitions are immutable once built; calculators share one set across
// every evaluation.
type Definition struct {
	// ID — stable identifier used as the key in input records, weight
	// vectors and sub-score maps.
	ID string `yaml:"id"`
	// Name — display name substituted into recommendation texts.
	Name string `yaml:"name"`
	// Unit — measurement unit, informational only.
	Unit string `yaml:"unit"`
	// Min and Max bound the valid raw input range. Values outside are
	// rejected by validation before any scoring runs.
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	// Direction — DirectionHigher or DirectionLower.
	Direction string `yaml:"direction"`
	// Benchmark — reference triple for interpolation mode. Nil for
	// ratio-mode metrics.
	Benchmark *Triple `yaml:"benchmark"`
	// ReferenceMax — reference maximum for ratio mode. Ignored when
	// Benchmark is set.
	ReferenceMax float64 `yaml:"reference_max"`
	// Headline — whether the metric appears in the gap-to-benchmark table.
	Headline bool `yaml:"headline"`
	// Optional — whether a record may omit the metric. Optional metrics
	// are range-checked and exposed to heuristics when present, but their
	// absence neither fails validation nor contributes a sub-score.
	Optional bool `yaml:"optional"`
}

// Normalize maps a raw value onto the [0,100] scale.
//
// Interpolation mode (Benchmark set): the result is 0 at the unfavourable
// bound of the triple and 100 at the favourable one, linear in between. A
// degenerate triple (High == Low) collapses to a step at the single point.
//
// Ratio mode (ReferenceMax set): min(100, value/ReferenceMax*100), mirrored
// for DirectionLower as min(100, ReferenceMax/value*100).
//
// The result is clamped to [0,100] for any real input, even values the
// validator would have rejected.
func (d *Definition) Normalize(value float64) float64 {
	if d.Benchmark != nil {
		return clamp(d.interpolate(value))
	}
	return clamp(d.ratio(value))
}

func (d *Definition) interpolate(value float64) float64 {
	b := d.Benchmark
	span := b.High - b.Low
	if span == 0 {
		// Degenerate triple: a single reference point.
		if d.Direction == DirectionLower {
			if value <= b.Low {
				return 100
			}
			return 0
		}
		if value >= b.High {
			return 100
		}
		return 0
	}
	if d.Direction == DirectionLower {
		return (b.High - value) / span * 100
	}
	return (value - b.Low) / span * 100
}

func (d *Definition) ratio(value float64) float64 {
	if d.ReferenceMax == 0 {
		return 0
	}
	if d.Direction == DirectionLower {
		if value <= 0 {
			return 100
		}
		return d.ReferenceMax / value * 100
	}
	return value / d.ReferenceMax * 100
}

// Validate checks the internal consistency of the definition.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("metric: id must be specified")
	}
	if d.Direction != DirectionHigher && d.Direction != DirectionLower {
		return fmt.Errorf("metric %s: unsupported direction '%s'", d.ID, d.Direction)
	}
	if d.Min > d.Max {
		return fmt.Errorf("metric %s: min %v exceeds max %v", d.ID, d.Min, d.Max)
	}
	if d.Benchmark == nil && d.ReferenceMax == 0 {
		return fmt.Errorf("metric %s: either benchmark or reference_max must be specified", d.ID)
	}
	if d.Benchmark != nil && d.Benchmark.High < d.Benchmark.Low {
		return fmt.Errorf("metric %s: benchmark high %v below low %v", d.ID, d.Benchmark.High, d.Benchmark.Low)
	}
	return nil
}

// Set is an ordered collection of metric definitions. Order is significant:
// it fixes the iteration order of every derived table so results are
// reproducible run to run.
type Set []Definition

// ByID returns the definition with the given identifier.
func (s Set) ByID(id string) (*Definition, bool) {
	for i := range s {
		if s[i].ID == id {
			return &s[i], true
		}
	}
	return nil, false
}

// IDs returns the metric identifiers in declaration order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for i := range s {
		ids = append(ids, s[i].ID)
	}
	return ids
}

// Validate checks every definition and rejects duplicate identifiers.
func (s Set) Validate() error {
	seen := make(map[string]bool, len(s))
	for i := range s {
		if err := s[i].Validate(); err != nil {
			return err
		}
		if seen[s[i].ID] {
			return fmt.Errorf("metric %s: duplicate id", s[i].ID)
		}
		seen[s[i].ID] = true
	}
	return nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
