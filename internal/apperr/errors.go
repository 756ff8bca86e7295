// Package apperr defines the error taxonomy shared across the engine.
package apperr

import "errors"

var (
	// ErrInvalidNote marks a malformed input record: empty raw text or a
	// negative word count. Batch callers should exclude the failing record
	// rather than abort the run.
	ErrInvalidNote = errors.New("invalid note")
	// ErrInvalidCriteria marks selection criteria that fail validation:
	// weights not summing to 1.0, max notes outside [1,20], or non-positive
	// budget/cooldown values.
	ErrInvalidCriteria = errors.New("invalid criteria")
)
