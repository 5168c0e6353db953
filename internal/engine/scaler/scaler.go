// Package scaler applies the fitted feature transform that precedes
// inference. A deployment may ship without one.
package scaler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crimson-sun/cardio/internal/engine/weights"
)

// ErrNotFound is returned by Load when the scaler artifact does not exist.
var ErrNotFound = errors.New("scaler: artifact not found")

// Scaler is a deterministic per-feature transform. Implementations must be
// safe for concurrent use.
type Scaler interface {
	Transform(vec []float64) ([]float64, error)
	Close() error
}

// Load opens a scaler artifact by extension (".onnx" or ".safetensors").
// A missing file yields ErrNotFound so callers can fall back to raw inputs.
func Load(path, libPath string, nFeatures int) (Scaler, error) {
	if path == "" {
		return nil, ErrNotFound
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".onnx":
		return NewONNX(path, libPath, nFeatures)
	case ".safetensors":
		return LoadStandard(path, nFeatures)
	default:
		return nil, fmt.Errorf("scaler: unsupported artifact format: %s", path)
	}
}

// Standard rescales each feature as (x - mean) / scale.
type Standard struct {
	mean  []float64
	scale []float64
}

// NewStandard builds a Standard scaler. A zero scale entry is treated as 1,
// matching how constant features are fitted.
func NewStandard(mean, scale []float64) (*Standard, error) {
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("scaler: mean has %d values, scale has %d", len(mean), len(scale))
	}
	s := &Standard{
		mean:  make([]float64, len(mean)),
		scale: make([]float64, len(scale)),
	}
	copy(s.mean, mean)
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

// LoadStandard reads "mean" and "scale" tensors from a safetensors file.
func LoadStandard(path string, nFeatures int) (*Standard, error) {
	ts, err := weights.Load(path)
	if err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}
	mean, err := weights.Vector(ts, "mean", nFeatures)
	if err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}
	scale, err := weights.Vector(ts, "scale", nFeatures)
	if err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}
	return NewStandard(mean, scale)
}

// Transform returns a rescaled copy of vec.
func (s *Standard) Transform(vec []float64) ([]float64, error) {
	if len(vec) != len(s.mean) {
		return nil, fmt.Errorf("scaler: expected %d features, got %d", len(s.mean), len(vec))
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

// Close is a no-op.
func (s *Standard) Close() error { return nil }
