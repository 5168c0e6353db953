package cardio

import "path/filepath"

type options struct {
	modelDir    string
	modelPath   string
	scalerPath  string
	runtimePath string
	chart       bool
}

// Option configures a Cardio instance.
type Option func(*options)

// WithModelDir sets the directory containing model files.
// Expects: model.onnx and, optionally, scaler.onnx.
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithModelPaths sets explicit classifier and scaler paths. Either may be
// an .onnx or .safetensors file. An empty scaler path disables scaling.
func WithModelPaths(model, scaler string) Option {
	return func(o *options) {
		o.modelPath = model
		o.scalerPath = scaler
	}
}

// WithRuntimeLibrary sets the ONNX Runtime shared library path.
// Default: libonnxruntime.so next to the model.
func WithRuntimeLibrary(path string) Option {
	return func(o *options) {
		o.runtimePath = path
	}
}

// WithChart controls whether Assess renders the confidence chart.
// Default: true.
func WithChart(enabled bool) Option {
	return func(o *options) {
		o.chart = enabled
	}
}

func defaultOptions() options {
	return options{chart: true}
}

// resolvePaths returns the classifier and scaler paths. Explicit paths
// take precedence over modelDir.
func resolvePaths(o options) (model, scaler string) {
	if o.modelPath != "" {
		return o.modelPath, o.scalerPath
	}
	dir := o.modelDir
	if dir == "" {
		dir = "models"
	}
	return filepath.Join(dir, "model.onnx"), filepath.Join(dir, "scaler.onnx")
}
