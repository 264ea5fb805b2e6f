package analysis

import (
	"errors"
	"fmt"
)

var ErrNoText = errors.New("no text provided")

// ValidationError rejects a request before any source is called.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err rejects the request input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InternalError is an unexpected failure inside the pipeline. Detail is for
// logs only and must not reach the caller.
type InternalError struct {
	RequestID string
	Detail    any
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in request %s: %v", e.RequestID, e.Detail)
}
