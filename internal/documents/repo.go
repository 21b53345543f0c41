package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	Rename(ctx context.Context, userID, documentID, newName string) (Document, error)
	// UpdateSummary caches the summarization result. It only writes when no
	// summary is cached yet, so a concurrent duplicate never overwrites.
	UpdateSummary(ctx context.Context, userID, documentID, summary string, keyPhrases []string) error
	Delete(ctx context.Context, userID, documentID string) error
}
