package model

import "time"

// Display colors used by the result view.
const (
	ColorWarning = "orange"
	ColorDanger  = "red"
	ColorSafe    = "green"
)

// View is the rendering-agnostic result handed to the presentation layer.
type View struct {
	Text          string
	Color         string
	Chart         string      // base64-encoded PNG, empty when absent
	Probabilities *[2]float64 // nil unless a prediction was made
	Values        map[string]string
}

// HasChart reports whether the view carries an inline chart.
func (v View) HasChart() bool {
	return v.Chart != ""
}

// Outcome kinds recorded for each handled request.
const (
	OutcomePredicted = "predicted"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Assessment is the audit record of one handled request. It never carries
// the chart or the raw failure cause.
type Assessment struct {
	RequestID     string             `json:"request_id"`
	Timestamp     time.Time          `json:"timestamp"`
	Outcome       string             `json:"outcome"`
	Reason        string             `json:"reason,omitempty"`
	Label         *int               `json:"label,omitempty"`
	Verdict       string             `json:"verdict,omitempty"`
	Probabilities []float64          `json:"probabilities,omitempty"`
	Inputs        map[string]float64 `json:"inputs,omitempty"`
}
