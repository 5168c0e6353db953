package model

// FeatureVector holds the clinical inputs in canonical feature order.
// Position i always corresponds to features.Order[i].
type FeatureVector []float64

// ValidationResult is the outcome of range-checking a request's inputs.
type ValidationResult struct {
	Valid  bool
	Reason string // names the first failing field when !Valid
}

// Accept is the ValidationResult for inputs that passed every check.
func Accept() ValidationResult {
	return ValidationResult{Valid: true}
}

// Reject returns an invalid ValidationResult carrying reason.
func Reject(reason string) ValidationResult {
	return ValidationResult{Reason: reason}
}
