// Package weights reads and writes the safetensors format used for the
// linear classifier and standard scaler artifacts.
package weights

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Tensor is a dense tensor widened to float64.
type Tensor struct {
	Shape []int
	Data  []float64
}

// Len returns the number of elements implied by Shape.
func (t Tensor) Len() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

type tensorMeta struct {
	Dtype       string `json:"dtype"`
	Shape       []int  `json:"shape"`
	DataOffsets [2]int `json:"data_offsets"`
}

// Load reads every tensor in a safetensors file. Supported dtypes are F32
// and F64.
func Load(path string) (map[string]Tensor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	return Parse(data)
}

// Parse decodes an in-memory safetensors blob.
func Parse(data []byte) (map[string]Tensor, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("weights: file too small: %d bytes", len(data))
	}

	// 8-byte LE uint64 header length, then a JSON header.
	headerLen := binary.LittleEndian.Uint64(data[:8])
	if uint64(len(data)-8) < headerLen {
		return nil, fmt.Errorf("weights: header length %d exceeds file size", headerLen)
	}

	var header map[string]json.RawMessage
	if err := json.Unmarshal(data[8:8+headerLen], &header); err != nil {
		return nil, fmt.Errorf("weights: failed to parse header: %w", err)
	}

	base := 8 + int(headerLen)
	out := make(map[string]Tensor, len(header))
	for name, raw := range header {
		if name == "__metadata__" {
			continue
		}
		var meta tensorMeta
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("weights: tensor %q: bad metadata: %w", name, err)
		}

		var width int
		switch meta.Dtype {
		case "F32":
			width = 4
		case "F64":
			width = 8
		default:
			return nil, fmt.Errorf("weights: tensor %q: unsupported dtype %s", name, meta.Dtype)
		}

		start := base + meta.DataOffsets[0]
		end := base + meta.DataOffsets[1]
		if start < base || end < start || end > len(data) {
			return nil, fmt.Errorf("weights: tensor %q: bad data range [%d:%d] for file size %d",
				name, start, end, len(data))
		}
		n, err := elements(meta.Shape, (end-start)/width)
		if err != nil {
			return nil, fmt.Errorf("weights: tensor %q: %w", name, err)
		}
		if end-start != n*width {
			return nil, fmt.Errorf("weights: tensor %q: data size %d doesn't match shape %v",
				name, end-start, meta.Shape)
		}

		t := Tensor{Shape: meta.Shape}

		t.Data = make([]float64, n)
		for i := range t.Data {
			off := start + i*width
			if width == 4 {
				t.Data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4])))
			} else {
				t.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
			}
		}
		out[name] = t
	}
	return out, nil
}

// elements multiplies out shape, failing on a negative dimension or a
// product larger than limit.
func elements(shape []int, limit int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("negative dimension in shape %v", shape)
		}
		if d > 0 && n > limit/d {
			return 0, fmt.Errorf("shape %v exceeds %d elements of data", shape, limit)
		}
		n *= d
	}
	return n, nil
}

// Encode serializes tensors as F64 safetensors. Tensors are laid out in
// name order so output is deterministic.
func Encode(tensors map[string]Tensor) ([]byte, error) {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]tensorMeta, len(tensors))
	var payload []byte
	for _, name := range names {
		t := tensors[name]
		if t.Len() != len(t.Data) {
			return nil, fmt.Errorf("weights: tensor %q: shape %v holds %d values, got %d",
				name, t.Shape, t.Len(), len(t.Data))
		}
		start := len(payload)
		for _, v := range t.Data {
			payload = binary.LittleEndian.AppendUint64(payload, math.Float64bits(v))
		}
		header[name] = tensorMeta{
			Dtype:       "F64",
			Shape:       t.Shape,
			DataOffsets: [2]int{start, len(payload)},
		}
	}

	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("weights: marshal header: %w", err)
	}
	buf := binary.LittleEndian.AppendUint64(nil, uint64(len(hdr)))
	buf = append(buf, hdr...)
	return append(buf, payload...), nil
}

// Write encodes tensors and writes them to path.
func Write(path string, tensors map[string]Tensor) error {
	data, err := Encode(tensors)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	return nil
}

// Vector returns the named tensor flattened, requiring exactly n elements.
func Vector(tensors map[string]Tensor, name string, n int) ([]float64, error) {
	t, ok := tensors[name]
	if !ok {
		return nil, fmt.Errorf("weights: tensor %q not found", name)
	}
	if len(t.Data) != n {
		return nil, fmt.Errorf("weights: tensor %q: expected %d values, got shape %v", name, n, t.Shape)
	}
	return t.Data, nil
}
