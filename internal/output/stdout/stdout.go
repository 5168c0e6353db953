package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/crimson-sun/cardio/internal/model"
	"github.com/crimson-sun/cardio/internal/output"
)

// Output writes JSON-encoded assessment records to stdout, one per line.
type Output struct {
	mu            sync.Mutex
	enc           *json.Encoder
	includeInputs bool
}

// New creates a stdout Output with optional pretty-printed JSON.
func New(includeInputs, pretty bool) *Output {
	return newWriter(os.Stdout, includeInputs, pretty)
}

func newWriter(w io.Writer, includeInputs, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, includeInputs: includeInputs}
}

func (o *Output) Write(_ context.Context, a model.Assessment) error {
	formatted := output.FormatAssessment(a, o.includeInputs)
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.enc.Encode(formatted); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
