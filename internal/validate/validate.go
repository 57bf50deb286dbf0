package validate

import (
	"fmt"

	"lasercalc/internal/input"
	"lasercalc/internal/metric"
)

// OutOfRangeError is the fatal per-field validation error: a metric value
// lies outside its declared valid range. It blocks scoring entirely; no
// partial result is produced.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

// Error returns the textual description of the error.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: value %v outside valid range [%v, %v]", e.Field, e.Value, e.Min, e.Max)
}

// NewOutOfRangeError creates a new OutOfRangeError for the given field.
func NewOutOfRangeError(field string, value, min, max float64) *OutOfRangeError {
	return &OutOfRangeError{Field: field, Value: value, Min: min, Max: max}
}

// UnknownMetricError is returned when a record is missing a metric the
// definition set requires, or carries a non-numeric value for it.
type UnknownMetricError struct {
	Field string
}

// Error returns the textual description of the error.
func (e *UnknownMetricError) Error() string {
	return "missing or non-numeric metric: " + e.Field
}

// NewUnknownMetricError creates a new UnknownMetricError.
func NewUnknownMetricError(field string) *UnknownMetricError {
	return &UnknownMetricError{Field: field}
}

// Warning is a non-blocking consistency finding. Computation proceeds;
// warnings are attached to the result for the caller to surface.
type Warning struct {
	// Field — the input field the warning concerns.
	Field string `json:"field"`
	// Code — stable identifier for programmatic handling.
	Code string `json:"code"`
	// Message — human-readable description.
	Message string `json:"message"`
}

// Result collects the outcome of validating one record: hard errors that
// block scoring and soft warnings that do not.
type Result struct {
	Errors   []error
	Warnings []Warning
}

// OK reports whether scoring may proceed.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// RangeErrors checks every metric in the definition set against the record:
// missing or non-numeric values and values outside [Min, Max] are hard
// errors. Pure function; the record is never modified.
func RangeErrors(rec input.Record, defs metric.Set) []error {
	var errs []error
	for i := range defs {
		d := &defs[i]
		v, ok := rec.Number(d.ID)
		if !ok {
			if !d.Optional {
				errs = append(errs, NewUnknownMetricError(d.ID))
			}
			continue
		}
		if v < d.Min || v > d.Max {
			errs = append(errs, NewOutOfRangeError(d.ID, v, d.Min, d.Max))
		}
	}
	return errs
}
