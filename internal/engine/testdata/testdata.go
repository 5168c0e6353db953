// Package testdata provides patient fixtures and generated model artifacts
// for tests across the engine, handler, and server packages.
package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/crimson-sun/cardio/internal/engine/weights"
)

//go:embed patients.json
var patientsJSON []byte

// Patient is a labeled input mapping with its expected validation outcome.
type Patient struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Inputs      map[string]float64 `json:"inputs"`
	Valid       bool               `json:"valid"`
	Reason      string             `json:"reason"`
}

// LoadPatients parses the embedded patients.json and returns all entries.
func LoadPatients() ([]Patient, error) {
	var entries []Patient
	if err := json.Unmarshal(patientsJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse patients.json: %w", err)
	}
	return entries, nil
}

// Baseline returns a fresh copy of the in-range reference patient.
func Baseline() map[string]float64 {
	return map[string]float64{
		"age": 55, "sex": 1, "cp": 0, "trestbps": 130, "chol": 250,
		"fbs": 0, "restecg": 1, "thalach": 150, "exang": 0,
		"oldpeak": 1.0, "slope": 2, "ca": 0, "thal": 2,
	}
}

// Form renders inputs as string form values.
func Form(inputs map[string]float64) map[string]string {
	form := make(map[string]string, len(inputs))
	for k, v := range inputs {
		form[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return form
}

// Population statistics used by the generated scaler, in feature order.
var (
	ScalerMean  = []float64{54.4, 0.68, 0.97, 131.6, 246.3, 0.15, 0.53, 149.6, 0.33, 1.04, 1.4, 0.73, 2.31}
	ScalerScale = []float64{9.08, 0.47, 1.03, 17.5, 51.7, 0.36, 0.53, 22.9, 0.47, 1.16, 0.62, 1.02, 0.61}
)

// Logistic coefficients fitted on standardized features, in feature order.
var (
	Coef      = []float64{0.3, 0.6, -0.8, 0.3, 0.2, 0.05, -0.2, -0.5, 0.5, 0.6, -0.4, 0.8, 0.6}
	Intercept = -0.1
)

// WriteArtifacts writes a logistic classifier and a standard scaler as
// safetensors files into dir and returns their paths.
func WriteArtifacts(dir string) (modelPath, scalerPath string, err error) {
	modelPath = filepath.Join(dir, "model.safetensors")
	scalerPath = filepath.Join(dir, "scaler.safetensors")

	err = weights.Write(modelPath, map[string]weights.Tensor{
		"coef":      {Shape: []int{1, len(Coef)}, Data: Coef},
		"intercept": {Shape: []int{1}, Data: []float64{Intercept}},
	})
	if err != nil {
		return "", "", err
	}
	err = weights.Write(scalerPath, map[string]weights.Tensor{
		"mean":  {Shape: []int{len(ScalerMean)}, Data: ScalerMean},
		"scale": {Shape: []int{len(ScalerScale)}, Data: ScalerScale},
	})
	if err != nil {
		return "", "", err
	}
	return modelPath, scalerPath, nil
}
