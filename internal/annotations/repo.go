package annotations

import "context"

// AnnotationsRepo defines persistence operations for annotations.
type AnnotationsRepo interface {
	// CreateText appends a new, independent text highlight.
	CreateText(ctx context.Context, ann Annotation) error
	// UpsertDrawing atomically creates or replaces the single drawing for
	// (document, user, page). On replace, the stored row keeps its identity
	// and note; only the stroke data and updated time change.
	UpsertDrawing(ctx context.Context, ann Annotation) (Annotation, error)
	ListByDocument(ctx context.Context, userID, documentID string) ([]Annotation, error)
	// UpdateNote sets the free-text note on an owned annotation. Ownership is
	// checked on the annotation row itself.
	UpdateNote(ctx context.Context, userID, annotationID, note string) (Annotation, error)
	// DeleteByDocument removes every annotation for a document during the
	// document delete cascade.
	DeleteByDocument(ctx context.Context, userID, documentID string) error
}
