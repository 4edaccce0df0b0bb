package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrNotMatched means a conditional payment-status write found the
	// booking in a state the transition table does not allow as a source.
	ErrNotMatched = errors.New("booking state does not allow this transition")
)
