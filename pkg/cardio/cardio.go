package cardio

import (
	"fmt"

	"github.com/crimson-sun/cardio/internal/engine"
	"github.com/crimson-sun/cardio/internal/engine/features"
	"github.com/crimson-sun/cardio/internal/engine/validator"
	"github.com/crimson-sun/cardio/internal/model"
)

// Cardio is a heart disease risk assessor. Safe for concurrent use.
type Cardio struct {
	artifacts *engine.Artifacts
	predictor *engine.Predictor
}

// New loads the classifier and optional scaler. This is the expensive
// step; create once and reuse.
func New(opts ...Option) (*Cardio, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	modelPath, scalerPath := resolvePaths(o)
	a, err := engine.LoadArtifacts(engine.Paths{
		Model:      modelPath,
		Scaler:     scalerPath,
		RuntimeLib: o.runtimePath,
	})
	if err != nil {
		return nil, fmt.Errorf("cardio: %w", err)
	}

	var popts []engine.Option
	if !o.chart {
		popts = append(popts, engine.WithoutChart())
	}
	return &Cardio{artifacts: a, predictor: engine.New(a, popts...)}, nil
}

// Assess validates inputs and, if they pass, classifies them. inputs must
// hold exactly the 13 feature names. An out-of-range checked field yields
// an invalid Assessment, not an error.
func (c *Cardio) Assess(inputs map[string]float64) (Assessment, error) {
	res, err := validator.Validate(inputs)
	if err != nil {
		return Assessment{}, fmt.Errorf("cardio: %w", err)
	}
	if !res.Valid {
		return Assessment{Reason: res.Reason}, nil
	}

	pred, err := c.predictor.Predict(inputs)
	if err != nil {
		return Assessment{}, fmt.Errorf("cardio: %w", err)
	}
	return assessmentFromPrediction(pred), nil
}

// HasScaler reports whether a scaler was loaded.
func (c *Cardio) HasScaler() bool {
	return c.artifacts.HasScaler()
}

// Close releases model resources.
func (c *Cardio) Close() error {
	return c.artifacts.Close()
}

// FeatureNames returns the 13 input names in the order the model expects.
func FeatureNames() []string {
	return features.Names()
}

func assessmentFromPrediction(p model.Prediction) Assessment {
	return Assessment{
		Valid:         true,
		Label:         p.Label,
		Verdict:       p.Text,
		Probabilities: p.Probabilities,
		Chart:         p.Chart,
	}
}
