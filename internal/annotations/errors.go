package annotations

import "errors"

var (
	// ErrNotFound covers absent records and records owned by someone else.
	ErrNotFound     = errors.New("annotation not found")
	ErrInvalidInput = errors.New("invalid input")
)
