package apiclient

import (
	"fmt"
	"time"
)

// TransportError reports a network failure before any response was
// received (connection refused, DNS failure, reset mid-body).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError reports that the per-call bound elapsed before the
// physical call resolved. Every waiter coalesced onto the call
// receives the same error.
type TimeoutError struct {
	// Elapsed is the configured bound that was exceeded.
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.Elapsed)
}

// HTTPStatusError reports a non-2xx response. Status 204 is never an
// error; it is a successful empty result.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       []byte
	// Message is extracted from a JSON body's message/error field when
	// present, otherwise it is the raw body text.
	Message string
}

func (e *HTTPStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Status)
}

// DecodeError reports a response body that could not be parsed into
// the caller's expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
