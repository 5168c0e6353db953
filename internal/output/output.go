package output

import (
	"context"

	"github.com/crimson-sun/cardio/internal/model"
)

// Output defines the interface for assessment audit destinations.
type Output interface {
	Write(ctx context.Context, a model.Assessment) error
	Close() error
}

// Nop discards every record.
type Nop struct{}

func (Nop) Write(context.Context, model.Assessment) error { return nil }
func (Nop) Close() error                                  { return nil }
