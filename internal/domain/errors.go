package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or missing client payload. Surfaced as
// a 4xx response and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamError reports a failed or unexpected content-source response.
// The index cache is left unmodified when one occurs.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("content source error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("content source error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstreamError checks if an error is an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// ModelError reports a failed language-model invocation before any streaming
// has begun. Mid-stream failures end the stream abruptly instead.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model invocation failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// IsModelError checks if an error is a ModelError.
func IsModelError(err error) bool {
	var me *ModelError
	return errors.As(err, &me)
}
