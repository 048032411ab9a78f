// Package observe wires structured logging and tracing for the vocabulary
// trainer. Store repairs, swallowed save failures and drill sessions are all
// reported through an Observer.
package observe

import (
	"context"
	"io"

	"github.com/felixgeelhaar/bolt/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("vocab")

// Observer handles logging and tracing
type Observer struct {
	log *bolt.Logger
}

// Options selects the log format and verbosity.
type Options struct {
	// Verbose enables info and debug output; otherwise only warnings and errors are shown.
	Verbose bool
	// JSON switches from the console handler to one JSON object per line.
	JSON bool
}

// New creates a new Observer with console output.
// If verbose is false, only warnings and errors are shown.
func New(out io.Writer, verbose bool) *Observer {
	return NewWithOptions(out, Options{Verbose: verbose})
}

// NewWithOptions creates an Observer from explicit options.
func NewWithOptions(out io.Writer, opts Options) *Observer {
	var l *bolt.Logger
	if opts.JSON {
		l = bolt.New(bolt.NewJSONHandler(out))
	} else {
		l = bolt.New(bolt.NewConsoleHandler(out))
	}
	if !opts.Verbose {
		l.SetLevel(bolt.WARN)
	}
	return &Observer{log: l}
}

// Discard returns an Observer that drops everything.
func Discard() *Observer {
	return New(io.Discard, false)
}

// Log returns the underlying logger
func (o *Observer) Log() *bolt.Logger {
	return o.log
}

// StartSpan starts a new OTel span
func (o *Observer) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// Close ensures any buffered logs or traces are flushed (placeholder)
func (o *Observer) Close() error {
	return nil
}
