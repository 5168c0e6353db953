package cardio

// Assessment is the result of one risk assessment.
type Assessment struct {
	// Valid is false when a checked field was out of range; Reason then
	// names it and the remaining fields are zero.
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`

	Label         int        `json:"label"` // 0 healthy, 1 disease
	Verdict       string     `json:"verdict,omitempty"`
	Probabilities [2]float64 `json:"probabilities"`
	Chart         []byte     `json:"-"` // PNG; empty when charts are disabled
}

// HighRisk reports whether the classifier predicted heart disease.
func (a Assessment) HighRisk() bool {
	return a.Valid && a.Label == 1
}
