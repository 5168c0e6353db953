package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrNotNumeric is returned by Coerce for a value that is not a number.
var ErrNotNumeric = errors.New("handler: value is not numeric")

// Coerce converts every form value to float64. Values are NFKC-normalized
// first so full-width digits from IME input parse like ASCII digits.
func Coerce(form map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(form))
	for k, v := range form {
		s := strings.TrimSpace(norm.NFKC.String(v))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q", ErrNotNumeric, k)
		}
		out[k] = f
	}
	return out, nil
}
