package scaler

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/crimson-sun/cardio/internal/engine/onnxrt"
)

// ONNX runs a scaler exported with skl2onnx: one float [N, n] input and one
// float [N, n] output.
type ONNX struct {
	session   *ort.DynamicAdvancedSession
	nFeatures int
}

// NewONNX loads the scaler model and validates its tensor signature.
func NewONNX(modelPath, libPath string, nFeatures int) (*ONNX, error) {
	if err := onnxrt.Init(onnxrt.LibraryFor(modelPath, libPath)); err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("scaler: failed to read model info: %w", err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("scaler: expected 1 input and 1 output, got %d and %d", len(inputs), len(outputs))
	}
	for _, info := range []ort.InputOutputInfo{inputs[0], outputs[0]} {
		if info.DataType != ort.TensorElementDataTypeFloat {
			return nil, fmt.Errorf("scaler: tensor %q must be float32, got %v", info.Name, info.DataType)
		}
	}

	session, err := onnxrt.NewSession(modelPath, []string{inputs[0].Name}, []string{outputs[0].Name})
	if err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}
	return &ONNX{session: session, nFeatures: nFeatures}, nil
}

// Transform runs a single-row inference through the scaler graph.
func (s *ONNX) Transform(vec []float64) ([]float64, error) {
	if len(vec) != s.nFeatures {
		return nil, fmt.Errorf("scaler: expected %d features, got %d", s.nFeatures, len(vec))
	}
	shape := ort.NewShape(1, int64(len(vec)))

	tIn, err := ort.NewTensor(shape, onnxrt.Float32s(vec))
	if err != nil {
		return nil, fmt.Errorf("scaler: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	tOut, err := ort.NewEmptyTensor[float32](shape)
	if err != nil {
		return nil, fmt.Errorf("scaler: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := s.session.Run([]ort.Value{tIn}, []ort.Value{tOut}); err != nil {
		return nil, fmt.Errorf("scaler: transform failed: %w", err)
	}

	// Copy data out before the tensor is destroyed.
	src := tOut.GetData()
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out, nil
}

// Close releases the ONNX session.
func (s *ONNX) Close() error {
	return s.session.Destroy()
}
