package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/cardio/internal/engine/classifier"
	"github.com/crimson-sun/cardio/internal/engine/features"
	"github.com/crimson-sun/cardio/internal/engine/scaler"
)

// Paths locates the model artifacts on disk.
type Paths struct {
	Model      string
	Scaler     string
	RuntimeLib string // ONNX Runtime shared library; empty = next to the model
}

// Artifacts holds the fitted classifier and the optional scaler. It is
// built once at startup and only read afterwards, so a single value is
// shared by all concurrent requests.
type Artifacts struct {
	Classifier classifier.Classifier
	Scaler     scaler.Scaler // nil when no scaler was shipped
}

// LoadArtifacts loads the classifier and, if present, the scaler. A missing
// scaler is logged and tolerated; any classifier failure is returned.
func LoadArtifacts(p Paths) (*Artifacts, error) {
	cls, err := classifier.Load(p.Model, p.RuntimeLib, features.Count)
	if err != nil {
		return nil, fmt.Errorf("engine: load classifier: %w", err)
	}
	slog.Info("classifier loaded", "path", p.Model, "backend", cls.Backend())

	sc, err := scaler.Load(p.Scaler, p.RuntimeLib, features.Count)
	switch {
	case errors.Is(err, scaler.ErrNotFound):
		slog.Warn("scaler not found, using raw inputs", "path", p.Scaler)
		sc = nil
	case err != nil:
		cls.Close()
		return nil, fmt.Errorf("engine: load scaler: %w", err)
	default:
		slog.Info("scaler loaded", "path", p.Scaler)
	}

	return &Artifacts{Classifier: cls, Scaler: sc}, nil
}

// HasScaler reports whether inputs are rescaled before inference.
func (a *Artifacts) HasScaler() bool {
	return a.Scaler != nil
}

// Close releases model resources.
func (a *Artifacts) Close() error {
	var errs []error
	if a.Scaler != nil {
		errs = append(errs, a.Scaler.Close())
	}
	if a.Classifier != nil {
		errs = append(errs, a.Classifier.Close())
	}
	return errors.Join(errs...)
}
