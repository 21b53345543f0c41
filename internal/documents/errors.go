package documents

import "errors"

var (
	// ErrNotFound covers both absent documents and documents owned by
	// someone else; callers must not be able to tell the two apart.
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
)
