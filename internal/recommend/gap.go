package recommend

import (
	"lasercalc/internal/input"
	"lasercalc/internal/metric"
)

// Gap is one row of the gap-to-benchmark table: how far the current value
// of a headline metric sits from the best-in-class reference.
type Gap struct {
	MetricID   string  `json:"metricId"`
	Name       string  `json:"name"`
	Current    float64 `json:"current"`
	Benchmark  float64 `json:"benchmark"`
	Gap        float64 `json:"gap"`
	GapPercent float64 `json:"gapPercent"`
}

// Gaps builds the gap table for the headline metrics of the definition set.
// Only metrics with a benchmark triple participate; for lower-is-better
// metrics the gap is measured down to the Low reference. Values already at
// or beyond best in class report a zero gap.
func Gaps(rec input.Record, defs metric.Set) []Gap {
	var out []Gap
	for i := range defs {
		d := &defs[i]
		if !d.Headline || d.Benchmark == nil {
			continue
		}
		current, ok := rec.Number(d.ID)
		if !ok {
			continue
		}

		best := d.Benchmark.High
		gap := best - current
		if d.Direction == metric.DirectionLower {
			best = d.Benchmark.Low
			gap = current - best
		}
		if gap < 0 {
			gap = 0
		}

		pct := 0.0
		if best != 0 {
			pct = gap / best * 100
		}
		out = append(out, Gap{
			MetricID:   d.ID,
			Name:       d.Name,
			Current:    current,
			Benchmark:  best,
			Gap:        gap,
			GapPercent: pct,
		})
	}
	return out
}
