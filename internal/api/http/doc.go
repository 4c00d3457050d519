// Package http holds the gin handlers of a pingchain node.
//
// Ping is the only handler that touches tracing: it continues the caller's
// trace, opens a server span, and forwards to the next service when one is
// configured. Downstream failures are attached with c.Error and rendered by
// the error middleware.
package http
