package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/GriffinCanCode/pingchain/internal/infrastructure/config"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/tracing"
)

// Forwarder calls the next service and returns its decoded JSON body.
type Forwarder interface {
	Forward(ctx context.Context, url string) (any, error)
}

// PingResponse is the /ping body when a next service is configured.
type PingResponse struct {
	This     string `json:"this"`
	Next     string `json:"next:"`
	Response any    `json:"response"`
}

// Handlers contains all HTTP handlers
type Handlers struct {
	service config.ServiceConfig
	tracer  *tracing.Tracer
	next    Forwarder
	docs    *Document
}

// NewHandlers creates a new handler set
func NewHandlers(service config.ServiceConfig, tracer *tracing.Tracer, next Forwarder) *Handlers {
	if tracer == nil {
		tracer = tracing.NewNoopTracer()
	}
	return &Handlers{
		service: service,
		tracer:  tracer,
		next:    next,
		docs:    NewDocument(service),
	}
}

// Root redirects to the API documentation
func (h *Handlers) Root(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "/docs")
}

// Ping answers pong, or forwards to the next service and wraps its answer.
// The server span continues the caller's trace when a traceparent is sent.
func (h *Handlers) Ping(c *gin.Context) {
	ctx := h.tracer.Propagator().Extract(c.Request.Context(), c.Request.Header)
	ctx, span := h.tracer.Start(ctx, c.Request.Method+" "+c.Request.URL.Path,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			tracing.AttrHTTPMethod.String(c.Request.Method),
			tracing.AttrLanguage.String(h.service.Language),
		),
	)
	defer span.End()

	if h.service.NextURL == "" || h.next == nil {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
		return
	}

	response, err := h.next.Forward(ctx, h.service.NextURL)
	if err != nil {
		tracing.Fail(span, err, "Exception: "+err.Error())
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, PingResponse{
		This:     h.service.Name,
		Next:     h.service.NextURL,
		Response: response,
	})
}

// Health reports liveness and the configured chain position
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service.Name,
		"next":    h.service.NextURL,
	})
}
