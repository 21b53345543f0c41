package annotations

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of AnnotationsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Annotation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// CreateText appends a new text highlight.
func (r *MemoryRepo) CreateText(ctx context.Context, ann Annotation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, ann)
	return nil
}

// UpsertDrawing creates or replaces the page's drawing, preserving identity
// and note on replace.
func (r *MemoryRepo) UpsertDrawing(ctx context.Context, ann Annotation) (Annotation, error) {
	if err := ctx.Err(); err != nil {
		return Annotation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data {
		existing := r.data[i]
		if existing.Kind == KindDrawing &&
			existing.DocumentID == ann.DocumentID &&
			existing.UserID == ann.UserID &&
			existing.PageNumber == ann.PageNumber {
			r.data[i].StrokeData = ann.StrokeData
			r.data[i].UpdatedAt = ann.UpdatedAt
			return r.data[i], nil
		}
	}
	r.data = append(r.data, ann)
	return ann, nil
}

// ListByDocument returns all annotations for a document and owner.
func (r *MemoryRepo) ListByDocument(ctx context.Context, userID, documentID string) ([]Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Annotation
	for _, ann := range r.data {
		if ann.DocumentID == documentID && ann.UserID == userID {
			out = append(out, ann)
		}
	}
	return out, nil
}

// UpdateNote sets the note on an owned annotation.
func (r *MemoryRepo) UpdateNote(ctx context.Context, userID, annotationID, note string) (Annotation, error) {
	if err := ctx.Err(); err != nil {
		return Annotation{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data {
		if r.data[i].ID == annotationID && r.data[i].UserID == userID {
			r.data[i].Note = note
			r.data[i].UpdatedAt = time.Now().UTC()
			return r.data[i], nil
		}
	}
	return Annotation{}, ErrNotFound
}

// DeleteByDocument removes every annotation for a document and owner.
func (r *MemoryRepo) DeleteByDocument(ctx context.Context, userID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.data[:0]
	for _, ann := range r.data {
		if ann.DocumentID == documentID && ann.UserID == userID {
			continue
		}
		kept = append(kept, ann)
	}
	r.data = kept
	return nil
}

var _ AnnotationsRepo = (*MemoryRepo)(nil)
