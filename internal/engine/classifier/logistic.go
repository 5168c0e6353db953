package classifier

import (
	"fmt"
	"math"

	"github.com/crimson-sun/cardio/internal/engine/weights"
)

// Logistic is a fitted binary logistic regression: coef holds one weight per
// feature, and the decision is coef·x + intercept > 0.
type Logistic struct {
	coef      []float64
	intercept float64
}

// NewLogistic builds a Logistic from explicit parameters.
func NewLogistic(coef []float64, intercept float64) *Logistic {
	c := make([]float64, len(coef))
	copy(c, coef)
	return &Logistic{coef: c, intercept: intercept}
}

// LoadLogistic reads "coef" ([1,n] or [n]) and "intercept" ([1]) tensors
// from a safetensors file.
func LoadLogistic(path string, nFeatures int) (*Logistic, error) {
	ts, err := weights.Load(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	coef, err := weights.Vector(ts, "coef", nFeatures)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	intercept, err := weights.Vector(ts, "intercept", 1)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return NewLogistic(coef, intercept[0]), nil
}

// Predict returns the class decision and the sigmoid probabilities.
func (l *Logistic) Predict(vec []float64) (Result, error) {
	if len(vec) != len(l.coef) {
		return Result{}, fmt.Errorf("classifier: expected %d features, got %d", len(l.coef), len(vec))
	}
	z := l.intercept
	for i, w := range l.coef {
		z += w * vec[i]
	}
	if math.IsNaN(z) {
		return Result{}, fmt.Errorf("classifier: decision function is NaN")
	}

	label := 0
	if z > 0 {
		label = 1
	}
	p1 := 1 / (1 + math.Exp(-z))
	probs, err := normalize([2]float64{1 - p1, p1})
	if err != nil {
		return Result{}, err
	}
	return Result{Label: label, Probabilities: probs}, nil
}

// Backend identifies the implementation in health output.
func (l *Logistic) Backend() string { return "logistic" }

// Close is a no-op.
func (l *Logistic) Close() error { return nil }
