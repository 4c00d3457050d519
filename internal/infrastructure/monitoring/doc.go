/*
Package monitoring provides Prometheus metrics for the ping service.

# Overview

Each Metrics value owns a private registry, tracking HTTP requests, calls to
the next service in the chain, and span export errors.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics)
	// ... call the next service ...
	timer.Stop(monitoring.OutcomeSuccess)
*/
package monitoring
