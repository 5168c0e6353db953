package features

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crimson-sun/cardio/internal/model"
)

func sample() map[string]float64 {
	return map[string]float64{
		"age": 55, "sex": 1, "cp": 0, "trestbps": 130, "chol": 250,
		"fbs": 0, "restecg": 1, "thalach": 150, "exang": 0,
		"oldpeak": 1.0, "slope": 2, "ca": 0, "thal": 2,
	}
}

func TestVectorizeOrder(t *testing.T) {
	want := model.FeatureVector{55, 1, 0, 130, 250, 0, 1, 150, 0, 1.0, 2, 0, 2}

	// Map iteration order is randomized; repeat to make an order leak visible.
	for i := 0; i < 50; i++ {
		got, err := Vectorize(sample())
		if err != nil {
			t.Fatalf("Vectorize() error: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Vectorize() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestVectorizeMissingKey(t *testing.T) {
	for _, name := range Order {
		in := sample()
		delete(in, name)
		_, err := Vectorize(in)
		if !errors.Is(err, ErrMissingFeature) {
			t.Errorf("without %q: expected ErrMissingFeature, got %v", name, err)
		}
	}
}

func TestVectorizeExtraKey(t *testing.T) {
	in := sample()
	in["bmi"] = 27
	_, err := Vectorize(in)
	if !errors.Is(err, ErrUnexpectedFeature) {
		t.Fatalf("expected ErrUnexpectedFeature, got %v", err)
	}
}

func TestVectorizeNonFinite(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		in := sample()
		in["oldpeak"] = v
		_, err := Vectorize(in)
		if !errors.Is(err, ErrNonFinite) {
			t.Errorf("oldpeak=%v: expected ErrNonFinite, got %v", v, err)
		}
	}
}

func TestNamesIsCopy(t *testing.T) {
	names := Names()
	names[0] = "mutated"
	if Order[0] != "age" {
		t.Fatal("Names() must not alias Order")
	}
}

func TestIndex(t *testing.T) {
	if got := Index("thalach"); got != 7 {
		t.Errorf("Index(thalach) = %d, want 7", got)
	}
	if got := Index("nope"); got != -1 {
		t.Errorf("Index(nope) = %d, want -1", got)
	}
}

func TestFieldsCoverOrder(t *testing.T) {
	fields := Fields()
	if len(fields) != Count {
		t.Fatalf("got %d fields, want %d", len(fields), Count)
	}
	for i, f := range fields {
		if f.Name != Order[i] {
			t.Errorf("fields[%d].Name = %q, want %q", i, f.Name, Order[i])
		}
		if f.Label == "" {
			t.Errorf("field %q has no label", f.Name)
		}
	}
}
