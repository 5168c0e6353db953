package model

// Class labels emitted by the classifier.
const (
	ClassHealthy = 0
	ClassDisease = 1
)

// Prediction is the transient result of one inference call.
type Prediction struct {
	Label         int        // classifier's own decision, 0 or 1
	Text          string     // human-readable verdict
	Probabilities [2]float64 // [p_healthy, p_disease]
	Chart         []byte     // PNG bytes, nil when rendering is disabled
}

// HighRisk reports whether the classifier decided on the disease class.
func (p Prediction) HighRisk() bool {
	return p.Label == ClassDisease
}
