package downstream

import (
	"fmt"
)

// Kind classifies why a call to the next service failed.
type Kind string

const (
	// KindStatus means the next service answered with a non-2xx status.
	KindStatus Kind = "status"
	// KindTransport means no response was received (DNS, refused, timeout, ...).
	KindTransport Kind = "transport"
	// KindDecode means the response body was not valid JSON.
	KindDecode Kind = "decode"
)

const maxBodyInMessage = 512

// Sentinels for errors.Is matching by kind.
var (
	ErrStatus    = &Error{Kind: KindStatus}
	ErrTransport = &Error{Kind: KindTransport}
	ErrDecode    = &Error{Kind: KindDecode}
)

// Error is the single failure type returned by Client.Forward.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int    // set for KindStatus and KindDecode
	Body       string // set for KindStatus and KindDecode
	Cause      error  // set for KindTransport and KindDecode
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("failed to perform request: unexpected status %d from %s, body: %s",
			e.StatusCode, e.URL, truncate(e.Body))
	case KindDecode:
		return fmt.Sprintf("failed to perform request: response from %s is not valid JSON: %v", e.URL, e.Cause)
	default:
		return fmt.Sprintf("failed to perform request: %s: %v", e.URL, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func truncate(body string) string {
	if len(body) <= maxBodyInMessage {
		return body
	}
	return body[:maxBodyInMessage] + "..."
}
