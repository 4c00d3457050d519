// Package config provides 12-factor configuration management for a ping chain service.
//
// Configuration is loaded once at start from environment variables with sensible
// defaults. CLI flags on the serve command can override the environment.
//
// Configuration Sections:
//   - Service: this service's name, the next service URL, the language tag
//   - Server: HTTP listen address and graceful shutdown bound
//   - Trace: OTLP collector endpoint and protocol
//   - Logging: log level and output format
//   - Metrics, CORS, RateLimit, Compression: optional middleware toggles
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	fmt.Printf("Server running on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - SERVICE_NAME, NEXT_SERVICE_URL, NEXT_SERVICE_TIMEOUT, SERVICE_LANGUAGE
//   - TRACE_COLLECTOR_URL, TRACE_COLLECTOR_PROTOCOL, TRACE_ENABLED
//   - PORT, HOST, LOG_LEVEL, LOG_DEV
//   - METRICS_ENABLED, CORS_ENABLED, COMPRESSION_ENABLED
//   - RATE_LIMIT_ENABLED, RATE_LIMIT_RPS, RATE_LIMIT_BURST
package config
