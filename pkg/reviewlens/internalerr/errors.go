package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNoReviews         = errors.New("no reviews provided")
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrCacheUnavailable  = errors.New("cache unavailable")
	ErrCorruptEntry      = errors.New("corrupt cache entry")
	ErrUnknownDimension  = errors.New("unknown dimension")
	ErrMalformedSentence = errors.New("malformed sentence")
)

// ProcessingError reports a fatal failure of an analysis run.
// Stage names the pipeline step; Field is set for input precondition failures.
type ProcessingError struct {
	Stage string
	Field string
	Cause error
}

func (e *ProcessingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %v: %s", e.Stage, e.Cause, e.Field)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Cause)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}
