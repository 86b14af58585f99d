package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// FetchError represents a non-2xx response from the catalog API
type FetchError struct {
	Endpoint   string // request URL with credentials removed
	StatusCode int
	Body       string // truncated response body, if any
}

func (e *FetchError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("tmdb: unexpected status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("tmdb: unexpected status %d", e.StatusCode)
}

// Retryable reports whether the request may succeed if repeated.
func (e *FetchError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// NewFetchError creates a FetchError for the given endpoint and status
func NewFetchError(endpoint string, statusCode int, body string) *FetchError {
	return &FetchError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Body:       body,
	}
}

// IsFetchError checks if error is a FetchError
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return stdErrors.As(err, &fetchErr)
}
