// Package downstream calls the next service of a ping chain.
//
// A Client makes exactly one GET per Forward call: no retries, no circuit
// breaker, and no timeout unless one is configured. The caller's trace
// context travels in the traceparent header, and the call is wrapped in a
// client span that records any failure before the typed *Error is returned.
//
//	client := downstream.NewClient(tracer, logger, downstream.Options{})
//	body, err := client.Forward(ctx, "http://service-b:8080/ping")
//	if errors.Is(err, downstream.ErrStatus) {
//		// next service answered, but not with 2xx
//	}
package downstream
