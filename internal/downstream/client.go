package downstream

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-cleanhttp"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pingchain/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/tracing"
)

const spanName = "downstream.Forward"

// Options configures a Client.
type Options struct {
	// Timeout bounds a whole call. Zero means no bound.
	Timeout   time.Duration
	UserAgent string
}

// Client performs traced GET calls to the next service in the chain.
type Client struct {
	resty   *resty.Client
	tracer  *tracing.Tracer
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewClient creates a client that makes one attempt per call over a fresh
// connection that is closed once the response has been read.
func NewClient(tracer *tracing.Tracer, logger *zap.Logger, opts Options) *Client {
	if tracer == nil {
		tracer = tracing.NewNoopTracer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "pingchain/1.0"
	}

	restyClient := resty.New()
	restyClient.
		SetTransport(cleanhttp.DefaultTransport()).
		SetRetryCount(0).
		SetLogger(logger.Sugar()).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		restyClient.SetTimeout(opts.Timeout)
	}

	return &Client{
		resty:  restyClient,
		tracer: tracer,
		logger: logger,
	}
}

// WithMetrics records call outcomes and durations into metrics.
func (c *Client) WithMetrics(metrics *monitoring.Metrics) *Client {
	c.metrics = metrics
	return c
}

// Forward GETs url inside a child span of ctx, with the span's trace context
// injected into the request headers, and returns the decoded JSON body.
// Every failure is returned as *Error and recorded on the span.
func (c *Client) Forward(ctx context.Context, url string) (any, error) {
	ctx, span := c.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			tracing.AttrHTTPMethod.String(http.MethodGet),
			tracing.AttrHTTPURL.String(url),
		),
	)
	defer span.End()
	timer := monitoring.NewTimer(c.metrics)

	headers := http.Header{}
	c.tracer.Propagator().Inject(ctx, headers)

	log := c.logger.With(logging.TraceFields(ctx)...)
	log.Info("Next request", zap.String("url", url), zap.Any("headers", headers))

	value, derr := c.get(ctx, span, url, headers)
	if derr != nil {
		timer.Stop(string(derr.Kind))
		tracing.Fail(span, derr, "Exception: "+derr.Error())
		log.Warn("Next request failed", zap.String("kind", string(derr.Kind)), zap.Error(derr))
		return nil, derr
	}

	timer.Stop(monitoring.OutcomeSuccess)
	span.SetStatus(codes.Ok, "")
	log.Info("Next response", zap.Any("response", value))
	return value, nil
}

func (c *Client) get(ctx context.Context, span trace.Span, url string, headers http.Header) (any, *Error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeaderMultiValues(headers).
		Get(url)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Cause: err}
	}
	span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode()))

	body := resp.Body()
	if !resp.IsSuccess() {
		return nil, &Error{Kind: KindStatus, URL: url, StatusCode: resp.StatusCode(), Body: string(body)}
	}

	var value any
	if err := sonic.Unmarshal(body, &value); err != nil {
		return nil, &Error{Kind: KindDecode, URL: url, StatusCode: resp.StatusCode(), Body: string(body), Cause: err}
	}
	return value, nil
}
