package documents

import "time"

// Document represents an uploaded PDF owned by a user.
type Document struct {
	ID              string
	UserID          string
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string
	ExtractedText   string
	Summary         string
	KeyPhrases      []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasSummary reports whether a summary has been cached for the document.
func (d Document) HasSummary() bool {
	return d.Summary != ""
}
