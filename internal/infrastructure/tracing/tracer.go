package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span attribute keys shared by the handlers and the downstream client.
const (
	AttrHTTPMethod = attribute.Key("http.method")
	AttrHTTPURL    = attribute.Key("http.url")
	AttrLanguage   = attribute.Key("language")
)

// Tracer creates spans for one service and carries the propagator used at
// process boundaries. It is safe for concurrent use.
type Tracer struct {
	tracer     trace.Tracer
	propagator Propagator
}

// NewTracer returns a tracer named name from tp. A nil provider yields a no-op tracer.
func NewTracer(tp trace.TracerProvider, name string) *Tracer {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Tracer{
		tracer:     tp.Tracer(name),
		propagator: NewPropagator(),
	}
}

// NewNoopTracer returns a tracer whose spans record nothing.
func NewNoopTracer() *Tracer {
	return NewTracer(noop.NewTracerProvider(), "noop")
}

// Start opens a span as a child of the span context in ctx. The returned
// context carries the new span; callers must End the span exactly once,
// normally with defer.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// Propagator returns the propagator used to move span contexts across processes.
func (t *Tracer) Propagator() Propagator {
	return t.propagator
}

// Fail records err as an exception on span and marks the span as failed with message.
func Fail(span trace.Span, err error, message string) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
}
