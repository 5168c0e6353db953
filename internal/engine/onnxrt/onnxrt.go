// Package onnxrt owns process-wide ONNX Runtime initialization shared by
// the classifier and scaler backends.
package onnxrt

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// env manages global ONNX Runtime initialization (process-wide singleton).
var env struct {
	once sync.Once
	err  error
	lib  string
}

// Init initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect and later calls return its error.
func Init(libPath string) error {
	env.once.Do(func() {
		env.lib = libPath
		ort.SetSharedLibraryPath(libPath)
		env.err = ort.InitializeEnvironment()
	})
	if env.err != nil {
		return fmt.Errorf("onnxrt: failed to initialize runtime from %s: %w", env.lib, env.err)
	}
	return nil
}

// LibraryFor resolves the shared library path for a model. An explicit path
// wins; otherwise the library is expected alongside the model file.
func LibraryFor(modelPath, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
}

// NewSession opens a dynamic session for the given model with conservative
// threading; each request runs a single-row inference.
func NewSession(modelPath string, inputs, outputs []string) (*ort.DynamicAdvancedSession, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnxrt: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath, inputs, outputs, opts)
	if err != nil {
		return nil, fmt.Errorf("onnxrt: failed to create session for %s: %w", modelPath, err)
	}
	return session, nil
}

// Float32s narrows a feature vector to the float32 tensor layout ONNX
// exports of scikit-learn models expect.
func Float32s(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
