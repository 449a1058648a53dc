package imageflow

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError is returned when a rate limit is hit, either locally or
// by the provider API.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string
	Model      string
	Err        error // Underlying error from the provider
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s limit, retry after %v",
		e.Model, e.LimitType, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if an error is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// APIError is a normalized non-2xx response from a provider HTTP API.
type APIError struct {
	// StatusCode is the HTTP status returned by the provider.
	StatusCode int

	// Code is the provider's machine-readable error code, if any.
	Code string

	// Message is the provider's error message, or the raw body when
	// the error payload could not be parsed.
	Message string

	// Model the request was addressed to.
	Model string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider API error for %s: %d %s: %s", e.Model, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider API error for %s: %d: %s", e.Model, e.StatusCode, e.Message)
}

// AsAPIError extracts an APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ErrStorageNotConfigured is returned when storage operations are attempted
// without a configured storage backend.
var ErrStorageNotConfigured = errors.New("storage not configured")
