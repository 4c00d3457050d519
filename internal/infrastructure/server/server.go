package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/pingchain/internal/api/http"
	"github.com/GriffinCanCode/pingchain/internal/api/middleware"
	"github.com/GriffinCanCode/pingchain/internal/downstream"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/config"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/pingchain/internal/infrastructure/tracing"
)

const (
	readHeaderTimeout      = 10 * time.Second
	defaultFlushTimeout    = 5 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Option customizes a Server.
type Option func(*options)

type options struct {
	logger     *logging.Logger
	tracingOps []tracing.Option
}

// WithLogger replaces the logger built from the logging config.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracing passes extra options to the tracer provider.
func WithTracing(opts ...tracing.Option) Option {
	return func(o *options) {
		o.tracingOps = append(o.tracingOps, opts...)
	}
}

// Server wraps the HTTP server and dependencies
type Server struct {
	config   *config.Config
	handler  http.Handler
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	provider *tracing.Provider
}

// New creates a new server instance
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing pingchain node",
		zap.String("service", cfg.Service.Name),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("next", cfg.Service.NextURL),
	)

	// Initialize metrics first (the tracer provider reports export errors to it)
	metrics := monitoring.NewMetrics()

	provider, err := tracing.NewProvider(ctx, tracing.Config{
		ServiceName:  cfg.Service.Name,
		CollectorURL: cfg.Trace.CollectorURL,
		Protocol:     cfg.Trace.Protocol,
		Enabled:      cfg.Trace.Enabled,
	}, logger.Logger, append([]tracing.Option{tracing.WithErrorHook(metrics.RecordExportError)}, o.tracingOps...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	tracer := provider.Tracer()

	client := downstream.NewClient(tracer, logger.Logger, downstream.Options{
		Timeout:   cfg.Service.NextTimeout,
		UserAgent: cfg.Service.Name,
	}).WithMetrics(metrics)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestLogger(logger.Logger))
	router.Use(gin.Recovery())
	if cfg.Metrics.Enabled {
		router.Use(monitoring.Middleware(metrics))
	}
	if cfg.CORS.Enabled {
		router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}
	router.Use(middleware.ErrorHandler(logger.Logger))

	// Register routes
	handlers := apihttp.NewHandlers(cfg.Service, tracer, client)
	router.GET("/", handlers.Root)
	router.GET("/ping", handlers.Ping)
	router.GET("/health", handlers.Health)
	router.GET("/docs", handlers.Docs)
	router.GET("/openapi.json", handlers.OpenAPI)
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	var handler http.Handler = router
	if cfg.Compression.Enabled {
		handler = gzhttp.GzipHandler(router)
	}

	logger.Info("Server initialized successfully")

	return &Server{
		config:   cfg,
		handler:  handler,
		logger:   logger,
		metrics:  metrics,
		provider: provider,
	}, nil
}

// Handler returns the root HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics exposes the server's metrics collector.
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Server.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts the HTTP server down
// gracefully within SHUTDOWN_TIMEOUT.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), orDefault(s.config.Server.ShutdownTimeout, defaultShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// Close flushes pending spans within TRACE_SHUTDOWN_TIMEOUT and syncs the logger.
func (s *Server) Close() error {
	s.logger.Info("Flushing traces...")

	ctx, cancel := context.WithTimeout(context.Background(), orDefault(s.config.Trace.ShutdownTimeout, defaultFlushTimeout))
	defer cancel()

	var closeErr error
	if err := s.provider.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down tracer provider", zap.Error(err))
		closeErr = fmt.Errorf("failed to shut down tracer provider: %w", err)
	}

	// Sync logger before exit. stdout returns EINVAL on some platforms.
	_ = s.logger.Sync()

	return closeErr
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
