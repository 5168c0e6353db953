// Package validator range-checks clinical inputs before inference.
//
// Only age, resting blood pressure, cholesterol, and maximum heart rate are
// checked. The categorical and remaining numeric features pass through
// unchecked.
package validator

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/cardio/internal/model"
)

// ErrMissingField is returned when a checked field is absent from the input.
var ErrMissingField = errors.New("validator: missing field")

// Check is a closed plausibility range for one field.
type Check struct {
	Field  string
	Min    float64
	Max    float64
	Reason string
}

// Checks are evaluated in this order; the first failure wins.
var Checks = []Check{
	{Field: "age", Min: 1, Max: 120, Reason: "Invalid Age"},
	{Field: "trestbps", Min: 50, Max: 250, Reason: "Invalid Resting Blood Pressure"},
	{Field: "chol", Min: 50, Max: 600, Reason: "Invalid Cholesterol Level"},
	{Field: "thalach", Min: 60, Max: 220, Reason: "Invalid Maximum Heart Rate"},
}

// Validate returns Accept if every check passes, otherwise Reject naming the
// first failing field. A missing checked field is an error, not a rejection.
func Validate(input map[string]float64) (model.ValidationResult, error) {
	for _, c := range Checks {
		v, ok := input[c.Field]
		if !ok {
			return model.ValidationResult{}, fmt.Errorf("%w: %q", ErrMissingField, c.Field)
		}
		// Written as a positive range test so NaN fails it.
		if !(c.Min <= v && v <= c.Max) {
			return model.Reject(c.Reason), nil
		}
	}
	return model.Accept(), nil
}
