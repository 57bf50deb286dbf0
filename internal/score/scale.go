package score

import (
	"errors"
	"fmt"
)

// Tier is a discrete ordered classification derived from a composite score.
type Tier string

// Risk tiers, used by calculators that publish a risk score.
const (
	TierLow      Tier = "low"
	TierMedium   Tier = "medium"
	TierHigh     Tier = "high"
	TierCritical Tier = "critical"
)

// Performance tiers, used by calculators that publish a quality rating.
const (
	TierExcellent    Tier = "excellent"
	TierGood         Tier = "good"
	TierAverage      Tier = "average"
	TierBelowAverage Tier = "below_average"
	TierPoor         Tier = "poor"
)

// Band is one classification band: a boundary value and the tier assigned
// when the score falls on the band's side of it.
type Band struct {
	Bound float64 `yaml:"bound"`
	Tier  Tier    `yaml:"tier"`
}

// Scale classifies a composite score into a tier via an ordered band table.
// Thresholds are data, not code: each calculator publishes its own table.
//
// Two band modes cover the two ways threshold tables are conventionally
// written. A lower-bound scale lists bands in descending bound order and
// assigns the first band whose bound the score meets or exceeds
// (">=90 excellent, >=80 good, ..."). An upper-bound scale lists bands in
// ascending order and assigns the first band the score does not exceed
// ("<=3 low, <=6 medium, ..."). In both modes scores beyond the last band
// fall through to the fallback tier, so classification is total: every real
// score maps to exactly one tier.
type Scale struct {
	bands    []Band
	fallback Tier
	upper    bool
}

// ByLowerBound builds a scale over inclusive lower bounds. Bands must be
// given in strictly descending bound order; fallback applies below the last
// bound.
func ByLowerBound(bands []Band, fallback Tier) (*Scale, error) {
	if len(bands) == 0 {
		return nil, errors.New("scale: at least one band must be specified")
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Bound >= bands[i-1].Bound {
			return nil, fmt.Errorf("scale: bounds must descend, got %v after %v", bands[i].Bound, bands[i-1].Bound)
		}
	}
	return &Scale{bands: bands, fallback: fallback}, nil
}

// ByUpperBound builds a scale over inclusive upper bounds. Bands must be
// given in strictly ascending bound order; fallback applies above the last
// bound.
func ByUpperBound(bands []Band, fallback Tier) (*Scale, error) {
	if len(bands) == 0 {
		return nil, errors.New("scale: at least one band must be specified")
	}
	for i := 1; i < len(bands); i++ {
		if bands[i].Bound <= bands[i-1].Bound {
			return nil, fmt.Errorf("scale: bounds must ascend, got %v after %v", bands[i].Bound, bands[i-1].Bound)
		}
	}
	return &Scale{bands: bands, fallback: fallback, upper: true}, nil
}

// Classify maps a score to its tier. Total over all real inputs.
func (s *Scale) Classify(value float64) Tier {
	if s.upper {
		for _, b := range s.bands {
			if value <= b.Bound {
				return b.Tier
			}
		}
		return s.fallback
	}
	for _, b := range s.bands {
		if value >= b.Bound {
			return b.Tier
		}
	}
	return s.fallback
}
