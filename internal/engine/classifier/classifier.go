package classifier

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Load for an unknown artifact extension.
var ErrUnsupportedFormat = errors.New("classifier: unsupported artifact format")

// Result is the classifier's decision for one feature vector.
type Result struct {
	Label         int        // 0 = healthy, 1 = disease
	Probabilities [2]float64 // [p_healthy, p_disease]
}

// Classifier is a fitted binary classifier. Implementations must be safe
// for concurrent use.
type Classifier interface {
	Predict(vec []float64) (Result, error)
	Backend() string
	Close() error
}

// Load opens a classifier artifact, choosing the backend by extension:
// ".onnx" runs through ONNX Runtime, ".safetensors" is a logistic regression.
// libPath is only consulted for ONNX models.
func Load(path, libPath string, nFeatures int) (Classifier, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".onnx":
		return NewONNX(path, libPath, nFeatures)
	case ".safetensors":
		return LoadLogistic(path, nFeatures)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// normalize clamps each probability to [0,1] and rescales the pair to sum
// to 1. Runtimes computing in float32 drift by a few ulps.
func normalize(p [2]float64) ([2]float64, error) {
	for i := range p {
		if math.IsNaN(p[i]) {
			return p, fmt.Errorf("classifier: probability %d is NaN", i)
		}
		p[i] = math.Min(1, math.Max(0, p[i]))
	}
	sum := p[0] + p[1]
	if sum == 0 {
		return p, fmt.Errorf("classifier: probabilities sum to zero")
	}
	p[0] /= sum
	p[1] = 1 - p[0]
	return p, nil
}
