package engine

import (
	"fmt"

	"github.com/crimson-sun/cardio/internal/engine/chart"
	"github.com/crimson-sun/cardio/internal/engine/features"
	"github.com/crimson-sun/cardio/internal/model"
)

// Verdict texts for the two classes.
const (
	VerdictHigh = "High Risk of Heart Disease"
	VerdictLow  = "Low Risk (Healthy)"
)

// Renderer turns [p_healthy, p_disease] into image bytes.
type Renderer func(probs [2]float64) ([]byte, error)

// Option configures a Predictor.
type Option func(*Predictor)

// WithRenderer replaces the chart renderer.
func WithRenderer(r Renderer) Option {
	return func(p *Predictor) { p.render = r }
}

// WithoutChart disables chart rendering; Prediction.Chart stays nil.
func WithoutChart() Option {
	return func(p *Predictor) { p.render = nil }
}

// Predictor orchestrates the vectorize → scale → infer → render pipeline.
// It holds no per-call state and is safe for concurrent use.
type Predictor struct {
	artifacts *Artifacts
	render    Renderer
}

// New creates a Predictor over loaded artifacts.
func New(a *Artifacts, opts ...Option) *Predictor {
	p := &Predictor{artifacts: a, render: chart.Render}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict runs inference for one input mapping. The verdict follows the
// classifier's label; probabilities are reported but never thresholded.
func (p *Predictor) Predict(input map[string]float64) (model.Prediction, error) {
	vec, err := features.Vectorize(input)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("engine: %w", err)
	}

	x := []float64(vec)
	if p.artifacts.Scaler != nil {
		x, err = p.artifacts.Scaler.Transform(x)
		if err != nil {
			return model.Prediction{}, fmt.Errorf("engine: %w", err)
		}
	}

	res, err := p.artifacts.Classifier.Predict(x)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("engine: %w", err)
	}

	pred := model.Prediction{
		Label:         res.Label,
		Text:          VerdictFor(res.Label),
		Probabilities: res.Probabilities,
	}

	if p.render != nil {
		img, err := p.render(res.Probabilities)
		if err != nil {
			return model.Prediction{}, fmt.Errorf("engine: %w", err)
		}
		pred.Chart = img
	}
	return pred, nil
}

// VerdictFor maps a class label to its verdict text.
func VerdictFor(label int) string {
	if label == model.ClassDisease {
		return VerdictHigh
	}
	return VerdictLow
}
