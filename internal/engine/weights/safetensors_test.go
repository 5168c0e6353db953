package weights

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	in := map[string]Tensor{
		"coef":      {Shape: []int{1, 3}, Data: []float64{0.5, -1.25, 3}},
		"intercept": {Shape: []int{1}, Data: []float64{-0.1}},
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseF32(t *testing.T) {
	hdr := []byte(`{"__metadata__":{"format":"pt"},"mean":{"dtype":"F32","shape":[2],"data_offsets":[0,8]}}`)
	buf := binary.LittleEndian.AppendUint64(nil, uint64(len(hdr)))
	buf = append(buf, hdr...)
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(1.5))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(-2))

	got, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := got["__metadata__"]; ok {
		t.Error("metadata must not be returned as a tensor")
	}
	if diff := cmp.Diff([]float64{1.5, -2}, got["mean"].Data); diff != "" {
		t.Fatalf("mean mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsCorruptInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too small", []byte{1, 2, 3}},
		{"header overflow", binary.LittleEndian.AppendUint64(nil, 1<<40)},
		{"bad json", append(binary.LittleEndian.AppendUint64(nil, 3), []byte("{{{")...)},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.data); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestParseRejectsBadShapeAndOffsets(t *testing.T) {
	headers := map[string]string{
		"negative dim":     `{"x":{"dtype":"F64","shape":[-1],"data_offsets":[8,0]}}`,
		"negative product": `{"x":{"dtype":"F64","shape":[-1,-1],"data_offsets":[0,8]}}`,
		"reversed offsets": `{"x":{"dtype":"F64","shape":[0],"data_offsets":[8,0]}}`,
		"huge shape":       `{"x":{"dtype":"F64","shape":[4611686018427387904,4],"data_offsets":[0,8]}}`,
	}
	for name, hdr := range headers {
		buf := binary.LittleEndian.AppendUint64(nil, uint64(len(hdr)))
		buf = append(buf, hdr...)
		buf = append(buf, make([]byte, 8)...)
		if _, err := Parse(buf); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseRejectsUnsupportedDtype(t *testing.T) {
	hdr := []byte(`{"x":{"dtype":"I64","shape":[1],"data_offsets":[0,8]}}`)
	buf := binary.LittleEndian.AppendUint64(nil, uint64(len(hdr)))
	buf = append(buf, hdr...)
	buf = append(buf, make([]byte, 8)...)
	if _, err := Parse(buf); err == nil {
		t.Fatal("expected error for I64 dtype")
	}
}

func TestEncodeShapeMismatch(t *testing.T) {
	_, err := Encode(map[string]Tensor{"x": {Shape: []int{2, 2}, Data: []float64{1}}})
	if err == nil {
		t.Fatal("expected error for shape/data mismatch")
	}
}

func TestWriteLoadVector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.safetensors")
	if err := Write(path, map[string]Tensor{"scale": {Shape: []int{3}, Data: []float64{1, 2, 3}}}); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	ts, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, err := Vector(ts, "scale", 3); err != nil {
		t.Errorf("Vector(scale, 3) error: %v", err)
	}
	if _, err := Vector(ts, "scale", 4); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, err := Vector(ts, "mean", 3); err == nil {
		t.Error("expected missing tensor error")
	}
}
