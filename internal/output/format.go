package output

import (
	"math"

	"github.com/crimson-sun/cardio/internal/model"
)

// FormatAssessment returns a copy of the record ready for JSON encoding.
// Clinical inputs are dropped unless includeInputs is set; non-finite
// inputs are always dropped since JSON cannot carry them.
func FormatAssessment(a model.Assessment, includeInputs bool) model.Assessment {
	if !includeInputs || a.Inputs == nil {
		a.Inputs = nil
		return a
	}
	inputs := make(map[string]float64, len(a.Inputs))
	for k, v := range a.Inputs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		inputs[k] = v
	}
	a.Inputs = inputs
	return a
}
