package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Trace export protocols accepted by TRACE_COLLECTOR_PROTOCOL.
const (
	ProtocolHTTP = "http"
	ProtocolGRPC = "grpc"
)

// Config holds all application configuration.
type Config struct {
	Service     ServiceConfig
	Server      ServerConfig
	Trace       TraceConfig
	Logging     LogConfig
	Metrics     MetricsConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Compression CompressionConfig
}

// ServiceConfig describes this service's place in the ping chain.
type ServiceConfig struct {
	Name     string `envconfig:"SERVICE_NAME" default:"ServicePython"`
	NextURL  string `envconfig:"NEXT_SERVICE_URL"`
	Language string `envconfig:"SERVICE_LANGUAGE" default:"golang"`
	// NextTimeout bounds the downstream call. Zero leaves it unbounded.
	NextTimeout time.Duration `envconfig:"NEXT_SERVICE_TIMEOUT" default:"0s"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// TraceConfig holds span export configuration.
type TraceConfig struct {
	CollectorURL    string        `envconfig:"TRACE_COLLECTOR_URL" default:"http://jaeger:4318/v1/traces"`
	Protocol        string        `envconfig:"TRACE_COLLECTOR_PROTOCOL" default:"http"`
	Enabled         bool          `envconfig:"TRACE_ENABLED" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"TRACE_SHUTDOWN_TIMEOUT" default:"5s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// MetricsConfig toggles the Prometheus endpoint and middleware.
type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// CORSConfig toggles cross-origin headers.
type CORSConfig struct {
	Enabled bool `envconfig:"CORS_ENABLED" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
}

// CompressionConfig toggles gzip response compression.
type CompressionConfig struct {
	Enabled bool `envconfig:"COMPRESSION_ENABLED" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     "ServicePython",
			Language: "golang",
		},
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ShutdownTimeout: 5 * time.Second,
		},
		Trace: TraceConfig{
			CollectorURL:    "http://jaeger:4318/v1/traces",
			Protocol:        ProtocolHTTP,
			Enabled:         true,
			ShutdownTimeout: 5 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
		},
	}
}

// Validate rejects configuration the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Service.Name) == "" {
		return fmt.Errorf("invalid config: SERVICE_NAME is required")
	}
	if c.Service.NextURL != "" {
		if err := validateURL(c.Service.NextURL); err != nil {
			return fmt.Errorf("invalid config: NEXT_SERVICE_URL: %w", err)
		}
	}
	if c.Service.NextTimeout < 0 {
		return fmt.Errorf("invalid config: NEXT_SERVICE_TIMEOUT must not be negative")
	}
	switch c.Trace.Protocol {
	case ProtocolHTTP, ProtocolGRPC:
	default:
		return fmt.Errorf("invalid config: TRACE_COLLECTOR_PROTOCOL %q (want %q or %q)",
			c.Trace.Protocol, ProtocolHTTP, ProtocolGRPC)
	}
	if c.Trace.Enabled && c.Trace.CollectorURL != "" {
		if err := validateURL(c.Trace.CollectorURL); err != nil {
			return fmt.Errorf("invalid config: TRACE_COLLECTOR_URL: %w", err)
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid config: rate limit requires positive RATE_LIMIT_RPS and RATE_LIMIT_BURST")
	}
	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
