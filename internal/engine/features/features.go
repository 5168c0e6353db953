package features

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/crimson-sun/cardio/internal/model"
)

// Count is the number of clinical features the classifier expects.
const Count = 13

// Order is the canonical feature ordering. The classifier and scaler were
// fitted on columns in exactly this order.
var Order = [Count]string{
	"age", "sex", "cp", "trestbps", "chol",
	"fbs", "restecg", "thalach", "exang",
	"oldpeak", "slope", "ca", "thal",
}

var (
	ErrMissingFeature    = errors.New("features: missing feature")
	ErrUnexpectedFeature = errors.New("features: unexpected feature")
	ErrNonFinite         = errors.New("features: non-finite value")
)

// Names returns a copy of Order as a slice.
func Names() []string {
	names := make([]string, Count)
	copy(names, Order[:])
	return names
}

// Vectorize projects input into a FeatureVector in canonical order. The key
// set of input must equal Order exactly; a missing or extra key is an error,
// as is a NaN or infinite value.
func Vectorize(input map[string]float64) (model.FeatureVector, error) {
	vec := make(model.FeatureVector, Count)
	for i, name := range Order {
		v, ok := input[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingFeature, name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %q = %v", ErrNonFinite, name, v)
		}
		vec[i] = v
	}
	if len(input) != Count {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedFeature, extraKeys(input))
	}
	return vec, nil
}

// extraKeys lists keys of input not in Order, sorted for stable messages.
func extraKeys(input map[string]float64) []string {
	var extra []string
	for k := range input {
		if _, ok := index[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

var index = func() map[string]int {
	m := make(map[string]int, Count)
	for i, name := range Order {
		m[name] = i
	}
	return m
}()

// Index returns the position of name in Order, or -1.
func Index(name string) int {
	if i, ok := index[name]; ok {
		return i
	}
	return -1
}
