package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/cardio/internal/model"
	"github.com/crimson-sun/cardio/internal/output"
)

const (
	defaultBufferSize   = 256
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 256.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner output's Write fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithBlockOnFull makes Write wait for buffer space instead of dropping the
// record.
func WithBlockOnFull() Option {
	return func(a *Async) { a.dropOnFull = false }
}

// Async moves audit writes off the request path. Requests enqueue records;
// a background goroutine drains them to the wrapped output. By default a
// full buffer drops the record so a slow sink never delays a response.
type Async struct {
	inner      output.Output
	ch         chan model.Assessment
	done       chan struct{}
	errFunc    func(error)
	bufSize    int
	dropOnFull bool

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New wraps an output.Output in an async channel-based writer.
// The background drain goroutine starts immediately.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:      inner,
		bufSize:    defaultBufferSize,
		dropOnFull: true,
		errFunc:    func(err error) { slog.Warn("audit write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.Assessment, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write enqueues the record. Writes after Close are discarded.
func (a *Async) Write(ctx context.Context, rec model.Assessment) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil
	}

	if a.dropOnFull {
		select {
		case a.ch <- rec:
		default:
			slog.Warn("audit buffer full, dropping record",
				"request_id", rec.RequestID, "outcome", rec.Outcome)
		}
		return nil
	}

	select {
	case a.ch <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting records, waits for the drain goroutine to finish
// (with a timeout), then closes the inner output.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.ch)
		a.mu.Unlock()

		select {
		case <-a.done:
		case <-time.After(defaultDrainTimeout):
			slog.Warn("audit drain timed out")
		}
		err = a.inner.Close()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for rec := range a.ch {
		if err := a.inner.Write(context.Background(), rec); err != nil {
			a.errFunc(err)
		}
	}
}
