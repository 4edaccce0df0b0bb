package errors

import "errors"

var (
	ErrNotFound  = errors.New("contact submission not found")
	ErrInvalidID = errors.New("invalid contact ID format")
)
