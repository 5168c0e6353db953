package classifier

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/crimson-sun/cardio/internal/engine/onnxrt"
)

// ONNX runs a scikit-learn classifier exported with skl2onnx. The export
// must disable the ZipMap operator so probabilities come back as a dense
// [batch, 2] float tensor next to the int64 label tensor.
type ONNX struct {
	session   *ort.DynamicAdvancedSession
	inputName string
	labelName string
	probName  string
	nFeatures int
}

// NewONNX loads the model and validates its tensor signature.
func NewONNX(modelPath, libPath string, nFeatures int) (*ONNX, error) {
	if err := onnxrt.Init(onnxrt.LibraryFor(modelPath, libPath)); err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("classifier: failed to read model info: %w", err)
	}

	inputName, err := validateInput(inputs, nFeatures)
	if err != nil {
		return nil, err
	}
	labelName, probName, err := validateOutputs(outputs)
	if err != nil {
		return nil, err
	}

	session, err := onnxrt.NewSession(modelPath, []string{inputName}, []string{labelName, probName})
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	return &ONNX{
		session:   session,
		inputName: inputName,
		labelName: labelName,
		probName:  probName,
		nFeatures: nFeatures,
	}, nil
}

// validateInput expects one float tensor of shape [batch, nFeatures].
func validateInput(inputs []ort.InputOutputInfo, nFeatures int) (string, error) {
	if len(inputs) != 1 {
		return "", fmt.Errorf("classifier: expected 1 model input, got %d", len(inputs))
	}
	in := inputs[0]
	if in.DataType != ort.TensorElementDataTypeFloat {
		return "", fmt.Errorf("classifier: input %q must be float32, got %v", in.Name, in.DataType)
	}
	dims := in.Dimensions
	if len(dims) != 2 || (dims[1] != int64(nFeatures) && dims[1] > 0) {
		return "", fmt.Errorf("classifier: input %q has shape %v, want [N, %d]", in.Name, dims, nFeatures)
	}
	return in.Name, nil
}

// validateOutputs finds the int64 label tensor and the [batch, 2] float
// probability tensor.
func validateOutputs(outputs []ort.InputOutputInfo) (label, probs string, err error) {
	for _, out := range outputs {
		if out.OrtValueType != ort.ONNXTypeTensor {
			continue
		}
		switch out.DataType {
		case ort.TensorElementDataTypeInt64:
			if label == "" {
				label = out.Name
			}
		case ort.TensorElementDataTypeFloat:
			dims := out.Dimensions
			if probs == "" && len(dims) == 2 && dims[1] == 2 {
				probs = out.Name
			}
		}
	}
	if label == "" {
		return "", "", fmt.Errorf("classifier: model has no int64 label output")
	}
	if probs == "" {
		return "", "", fmt.Errorf("classifier: model has no [N, 2] probability output (export with zipmap disabled)")
	}
	return label, probs, nil
}

// Predict runs a single-row inference.
func (c *ONNX) Predict(vec []float64) (Result, error) {
	if len(vec) != c.nFeatures {
		return Result{}, fmt.Errorf("classifier: expected %d features, got %d", c.nFeatures, len(vec))
	}

	tIn, err := ort.NewTensor(ort.NewShape(1, int64(len(vec))), onnxrt.Float32s(vec))
	if err != nil {
		return Result{}, fmt.Errorf("classifier: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	tLabel, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		return Result{}, fmt.Errorf("classifier: failed to create label tensor: %w", err)
	}
	defer tLabel.Destroy()

	tProbs, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
	if err != nil {
		return Result{}, fmt.Errorf("classifier: failed to create probability tensor: %w", err)
	}
	defer tProbs.Destroy()

	if err := c.session.Run([]ort.Value{tIn}, []ort.Value{tLabel, tProbs}); err != nil {
		return Result{}, fmt.Errorf("classifier: inference failed: %w", err)
	}

	raw := tProbs.GetData()
	probs, err := normalize([2]float64{float64(raw[0]), float64(raw[1])})
	if err != nil {
		return Result{}, err
	}
	return Result{Label: int(tLabel.GetData()[0]), Probabilities: probs}, nil
}

// Backend identifies the implementation in health output.
func (c *ONNX) Backend() string { return "onnx" }

// Close releases the ONNX session.
func (c *ONNX) Close() error {
	return c.session.Destroy()
}
