package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
)

// Propagator moves span contexts in and out of carriers using the W3C
// traceparent/tracestate headers. Missing or malformed headers are ignored.
type Propagator struct {
	textMap propagation.TextMapPropagator
}

// NewPropagator returns a W3C Trace Context propagator.
func NewPropagator() Propagator {
	return Propagator{textMap: propagation.TraceContext{}}
}

// Extract returns ctx extended with the remote span context found in headers.
// When headers carry no usable trace context, ctx is returned as is and the
// next span started from it becomes a root span.
func (p Propagator) Extract(ctx context.Context, headers http.Header) context.Context {
	if headers == nil {
		return ctx
	}
	return p.propagator().Extract(ctx, propagation.HeaderCarrier(headers))
}

// Inject writes the span context of ctx into headers. Nothing is written when
// ctx carries no valid span context.
func (p Propagator) Inject(ctx context.Context, headers http.Header) {
	if headers == nil {
		return
	}
	p.propagator().Inject(ctx, propagation.HeaderCarrier(headers))
}

// ExtractMap is Extract over a plain string map with lower-case keys.
func (p Propagator) ExtractMap(ctx context.Context, carrier map[string]string) context.Context {
	if carrier == nil {
		return ctx
	}
	return p.propagator().Extract(ctx, propagation.MapCarrier(carrier))
}

// InjectMap is Inject over a plain string map.
func (p Propagator) InjectMap(ctx context.Context, carrier map[string]string) {
	if carrier == nil {
		return
	}
	p.propagator().Inject(ctx, propagation.MapCarrier(carrier))
}

// Fields returns the header names this propagator reads and writes.
func (p Propagator) Fields() []string {
	return p.propagator().Fields()
}

func (p Propagator) propagator() propagation.TextMapPropagator {
	if p.textMap == nil {
		return propagation.TraceContext{}
	}
	return p.textMap
}
