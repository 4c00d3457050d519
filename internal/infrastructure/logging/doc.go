// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Log lines written while a span is active can carry its ids through
// TraceFields, so a log line can be matched to the trace in the collector UI.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("addr", "0.0.0.0:8080"))
//	logger.WithTrace(ctx).Error("downstream call failed", zap.Error(err))
package logging
