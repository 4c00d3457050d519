// Package main is the entry point for a pingchain node.
//
// A node answers /ping and, when a next service is configured, forwards the
// call down the chain with the W3C trace context attached:
//
//	client → ServiceA → ServiceB → ServiceC
//	             ↘ spans ↘ spans ↘ spans → OTLP collector (Jaeger)
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	SERVICE_NAME=ServiceA NEXT_SERVICE_URL=http://service-b:8080/ping ./pingchain serve
//
//	# Development mode (colored logs, debug level)
//	./pingchain serve --dev --port 8081
//
//	# Start a trace from the command line
//	./pingchain ping http://localhost:8080/ping
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, then trace flush
package main
