// Package observability holds the logging and tracing seams the planner
// pipeline is threaded with. Registries, the script host and the pipeline
// take a Logger and a Tracer and fall back to the no-op versions; the CLI
// backs Logger with log/slog.
package observability

import "context"

// Logger records structured events such as pages registered, fonts attached
// or links dropped.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is one key/value pair on a log event.
type Field interface {
	Key() string
	Value() any
}

type field struct {
	key string
	val any
}

func (f field) Key() string { return f.key }
func (f field) Value() any  { return f.val }

func String(key, value string) Field        { return field{key, value} }
func Int(key string, value int) Field       { return field{key, value} }
func Int64(key string, value int64) Field   { return field{key, value} }
func Uint32(key string, value uint32) Field { return field{key, value} }

// Error logs err under key; handlers print its message.
func Error(key string, err error) Field { return field{key, err} }

// NopLogger drops every event.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Tracer opens a span around each pipeline phase.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

type Span interface {
	SetTag(key string, value any)
	SetError(err error)
	Finish()
}

// NopTracer returns a tracer whose spans record nothing and which hands back
// the context it was given.
func NopTracer() Tracer { return nopTracer{} }

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) SetTag(string, any) {}
func (nopSpan) SetError(error)     {}
func (nopSpan) Finish()            {}

// Span names, one per pipeline phase. Hooks run nested inside setup.
const (
	SpanSetup = "makepdf.setup"
	SpanHooks = "makepdf.hooks"
	SpanBuild = "makepdf.build"
	SpanSave  = "makepdf.save"
)
