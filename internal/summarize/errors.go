package summarize

import "errors"

var (
	// ErrNotFound covers both absent documents and documents owned by
	// someone else.
	ErrNotFound = errors.New("document not found")
	// ErrNoText means the document has no extracted text to summarize.
	ErrNoText = errors.New("document has no extracted text")
)

// ProviderError marks a failure coming from the summarization provider, as
// opposed to a persistence failure. The boundary maps it to 502 while
// storage failures stay 500.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }
