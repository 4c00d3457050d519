/*
Package tracing provides distributed tracing on top of OpenTelemetry.

# Overview

A Provider owns the SDK tracer provider and the OTLP exporter for the whole
process. Handlers and clients receive its Tracer explicitly; nothing here
installs a global tracer provider.

# Features

- W3C Trace Context propagation (traceparent/tracestate) via Propagator
- Span creation as children of the context passed in (Tracer.Start)
- Uniform failure recording (Fail: exception event plus error status)
- OTLP export over HTTP or gRPC behind a batch span processor
- Export errors routed to the logger, never to request handling

# Usage

	provider, err := tracing.NewProvider(ctx, tracing.Config{
		ServiceName:  "ServiceA",
		CollectorURL: "http://jaeger:4318/v1/traces",
		Protocol:     "http",
		Enabled:      true,
	}, logger)
	if err != nil {
		return err
	}
	defer provider.Shutdown(context.Background())

	tracer := provider.Tracer()
	ctx = tracer.Propagator().Extract(ctx, req.Header)
	ctx, span := tracer.Start(ctx, "GET /ping")
	defer span.End()

	headers := http.Header{}
	tracer.Propagator().Inject(ctx, headers)

# Trace Format

	traceparent: 00-<32 hex trace id>-<16 hex parent span id>-<2 hex flags>
*/
package tracing
