// Package multi sends each assessment record to several audit sinks.
package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/cardio/internal/model"
	"github.com/crimson-sun/cardio/internal/output"
)

// Multi is an audit sink that forwards every record to each of its sinks
// in configuration order. A failing sink does not stop delivery to the rest;
// its error is returned tagged with the sink position.
type Multi struct {
	sinks []output.Output
}

// New combines sinks. With no sinks, Write and Close are no-ops.
func New(sinks ...output.Output) *Multi {
	return &Multi{sinks: sinks}
}

// Write records one assessment in every sink.
func (m *Multi) Write(ctx context.Context, rec model.Assessment) error {
	return m.each("write", func(o output.Output) error { return o.Write(ctx, rec) })
}

// Close flushes and closes every sink.
func (m *Multi) Close() error {
	return m.each("close", output.Output.Close)
}

func (m *Multi) each(op string, fn func(output.Output) error) error {
	var err error
	for i, sink := range m.sinks {
		if e := fn(sink); e != nil {
			err = errors.Join(err, fmt.Errorf("audit sink %d: %s: %w", i, op, e))
		}
	}
	return err
}
