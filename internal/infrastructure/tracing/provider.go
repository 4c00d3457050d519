package tracing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const userAgent = "pingchain-otlp-exporter"

// Config describes where finished spans are exported.
type Config struct {
	ServiceName  string
	CollectorURL string
	// Protocol is "http" (OTLP/HTTP protobuf) or "grpc" (OTLP/gRPC).
	Protocol string
	// Enabled turns export on. Spans are still created and propagated when
	// export is off, so downstream services keep the caller's trace id.
	Enabled bool
}

// Option customizes a Provider.
type Option func(*providerOptions)

type providerOptions struct {
	processors []sdktrace.SpanProcessor
	onError    func(error)
}

// WithSpanProcessor registers an extra span processor next to the exporter.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *providerOptions) {
		o.processors = append(o.processors, sp)
	}
}

// WithErrorHook is called for every error the SDK reports, export failures included.
func WithErrorHook(fn func(error)) Option {
	return func(o *providerOptions) {
		o.onError = fn
	}
}

// Provider owns the SDK tracer provider and its batching exporter for the
// lifetime of the process.
type Provider struct {
	tp       *sdktrace.TracerProvider
	tracer   *Tracer
	logger   *zap.Logger
	onError  func(error)
	exported bool
}

// NewProvider builds the tracer provider and, when enabled, an OTLP exporter
// behind a batch span processor. Export happens on the processor goroutine;
// its failures go to the logger and the error hook, never to span callers.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger, opts ...Option) (*Provider, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		return nil, errors.New("tracing: service name is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var o providerOptions
	for _, opt := range opts {
		opt(&o)
	}

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(semconv.ServiceName(name)),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: build resource: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	}

	exported := cfg.Enabled && strings.TrimSpace(cfg.CollectorURL) != ""
	if exported {
		exporter, err := newExporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	for _, sp := range o.processors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}

	p := &Provider{
		tp:       sdktrace.NewTracerProvider(tpOpts...),
		logger:   logger,
		onError:  o.onError,
		exported: exported,
	}
	p.tracer = NewTracer(p.tp, name+"-tracer")

	// The SDK reports batch export failures only through the global handler.
	otel.SetErrorHandler(otel.ErrorHandlerFunc(p.handleError))

	logger.Info("Tracing initialized",
		zap.String("service", name),
		zap.Bool("export", exported),
		zap.String("collector", cfg.CollectorURL),
		zap.String("protocol", cfg.Protocol),
	)
	return p, nil
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Protocol {
	case "", "http":
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(cfg.CollectorURL),
		)
		if err != nil {
			return nil, fmt.Errorf("tracing: create otlp http exporter: %w", err)
		}
		return exporter, nil
	case "grpc":
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(cfg.CollectorURL),
			otlptracegrpc.WithDialOption(grpc.WithUserAgent(userAgent)),
		)
		if err != nil {
			return nil, fmt.Errorf("tracing: create otlp grpc exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("tracing: unsupported protocol %q", cfg.Protocol)
	}
}

func (p *Provider) handleError(err error) {
	if err == nil {
		return
	}
	p.logger.Warn("Trace export error", zap.Error(err))
	if p.onError != nil {
		p.onError(err)
	}
}

// Tracer returns the service tracer.
func (p *Provider) Tracer() *Tracer {
	return p.tracer
}

// TracerProvider exposes the underlying provider for instrumentation libraries.
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tp
}

// Exporting reports whether spans leave the process.
func (p *Provider) Exporting() bool {
	return p.exported
}

// ForceFlush exports all ended spans that have not been exported yet.
func (p *Provider) ForceFlush(ctx context.Context) error {
	return p.tp.ForceFlush(ctx)
}

// Shutdown flushes pending spans and stops the exporter. Spans started after
// Shutdown are dropped.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracing: shutdown: %w", err)
	}
	return nil
}
