package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/crimson-sun/cardio/internal/model"
	"github.com/crimson-sun/cardio/internal/output"
)

const (
	defaultBufSize    = 16 * 1024
	defaultMaxBackups = 5
)

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize sets the file size (bytes) at which rotation triggers.
// 0 (default) disables rotation.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithMaxBackups sets how many rotated files ({path}.1 … {path}.N) are kept.
// Default: 5.
func WithMaxBackups(n int) Option {
	return func(o *Output) { o.maxBackups = n }
}

// WithIncludeInputs keeps clinical inputs in written records.
func WithIncludeInputs() Option {
	return func(o *Output) { o.includeInputs = true }
}

// Output appends NDJSON assessment records to a file with buffered I/O and
// optional size-based rotation.
type Output struct {
	mu            sync.Mutex
	w             *bufio.Writer
	f             *os.File
	path          string
	includeInputs bool
	maxSize       int64 // 0 = no rotation
	maxBackups    int
	written       int64
}

// New opens (or creates) path for appending.
func New(path string, opts ...Option) (*Output, error) {
	o := &Output{
		path:       path,
		maxBackups: defaultMaxBackups,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.openFile(); err != nil {
		return nil, err
	}
	return o, nil
}

// Write encodes the record and appends it as one line.
func (o *Output) Write(_ context.Context, a model.Assessment) error {
	data, err := json.Marshal(output.FormatAssessment(a, o.includeInputs))
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	data = append(data, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.maxSize > 0 && o.written > 0 && o.written+int64(len(data)) > o.maxSize {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file output: rotate: %w", err)
		}
	}

	n, err := o.w.Write(data)
	o.written += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

// Close flushes the buffer and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}

func (o *Output) openFile() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, defaultBufSize)
	o.written = info.Size()
	return nil
}

// rotate closes the current file, shifts {path}.i to {path}.i+1 dropping
// the oldest, moves the current file to {path}.1 and reopens path.
func (o *Output) rotate() error {
	if err := o.w.Flush(); err != nil {
		return err
	}
	if err := o.f.Close(); err != nil {
		return err
	}

	if o.maxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", o.path, o.maxBackups))
		for i := o.maxBackups - 1; i >= 1; i-- {
			os.Rename(fmt.Sprintf("%s.%d", o.path, i), fmt.Sprintf("%s.%d", o.path, i+1))
		}
		if err := os.Rename(o.path, o.path+".1"); err != nil {
			return err
		}
	} else if err := os.Remove(o.path); err != nil {
		return err
	}

	return o.openFile()
}
