// Package middleware provides the gin middleware stack of a pingchain node.
//
//   - RequestLogger: logs /ping requests and responses with their headers
//   - ErrorHandler: maps handler errors to a generic 500 response
//   - CORS: cross-origin access for browser dashboards
//   - RateLimit: per-IP token bucket
//
// Order matters: RequestLogger goes first so it sees the status written by
// ErrorHandler, which goes last so it runs right after the handler.
//
//	router.Use(middleware.RequestLogger(logger))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	router.Use(middleware.ErrorHandler(logger))
package middleware
