package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewProviderRequiresServiceName(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{ServiceName: "  "}, nil)
	require.Error(t, err)
}

func TestNewProviderRejectsUnknownProtocol(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		ServiceName:  "svc",
		CollectorURL: "http://192.0.2.1:4318/v1/traces",
		Protocol:     "thrift",
		Enabled:      true,
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported protocol")
}

func TestNewProviderExportProtocols(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		exported bool
	}{
		{
			name:     "disabled",
			cfg:      Config{ServiceName: "svc", CollectorURL: "http://192.0.2.1:4318/v1/traces", Enabled: false},
			exported: false,
		},
		{
			name:     "empty collector",
			cfg:      Config{ServiceName: "svc", Enabled: true},
			exported: false,
		},
		{
			// Non-routable address so no actual export happens.
			name:     "otlp http",
			cfg:      Config{ServiceName: "svc", CollectorURL: "http://192.0.2.1:4318/v1/traces", Protocol: "http", Enabled: true},
			exported: true,
		},
		{
			name:     "otlp grpc",
			cfg:      Config{ServiceName: "svc", CollectorURL: "http://192.0.2.1:4317", Protocol: "grpc", Enabled: true},
			exported: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.cfg, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, tt.exported, p.Exporting())
			assert.NotNil(t, p.Tracer())
			assert.NotNil(t, p.TracerProvider())

			// Shutdown with nothing queued must not wait on the collector.
			require.NoError(t, p.Shutdown(context.Background()))
		})
	}
}

func TestProviderSpansPropagateWithoutExport(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	p, err := NewProvider(context.Background(), Config{ServiceName: "svc"}, nil, WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	ctx, span := p.Tracer().Start(context.Background(), "root")
	headers := http.Header{}
	p.Tracer().Propagator().Inject(ctx, headers)
	span.End()

	assert.NotEmpty(t, headers.Get("traceparent"))
	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, "svc", resourceServiceName(t, recorder))
}

func TestProviderHandleErrorLogsAndCallsHook(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var hooked []error
	p, err := NewProvider(context.Background(), Config{ServiceName: "svc"}, zap.New(core),
		WithErrorHook(func(err error) { hooked = append(hooked, err) }))
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	p.handleError(errors.New("collector unreachable"))
	p.handleError(nil)

	require.Len(t, hooked, 1)
	assert.EqualError(t, hooked[0], "collector unreachable")
	assert.Equal(t, 1, logs.FilterMessage("Trace export error").Len())
}

func resourceServiceName(t *testing.T, recorder *tracetest.SpanRecorder) string {
	t.Helper()
	for _, kv := range recorder.Ended()[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			return kv.Value.AsString()
		}
	}
	return ""
}
