package errors

import (
	stdErrors "errors"
	"fmt"
)

// NotFoundError is returned when a genre slug cannot be resolved by any lookup strategy.
type NotFoundError struct {
	Kind  string
	Slug  string
	Cause error // catalog fetch failure that prevented resolution, if any
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("genre %q not found: %v", e.Slug, e.Cause)
	}
	return fmt.Sprintf("genre %q not found", e.Slug)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a NotFoundError for the attempted slug.
func NewNotFoundError(kind, slug string, cause error) *NotFoundError {
	return &NotFoundError{Kind: kind, Slug: slug, Cause: cause}
}

// IsNotFoundError reports whether err is a NotFoundError (even when wrapped).
func IsNotFoundError(err error) bool {
	var notFound *NotFoundError
	return stdErrors.As(err, &notFound)
}
