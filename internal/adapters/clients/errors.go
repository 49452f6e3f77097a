// Package clients provides the instrumented HTTP client used to reach
// the remote quote resource.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer. They are
// infrastructure failures; the ACL translates them to domain errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open and
	// requests to the remote are being blocked.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after all retry attempts have
	// been exhausted. The original error is wrapped for context.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
