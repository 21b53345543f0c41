package annotations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfmark-backend/internal/documents"
)

// Service contains business logic for annotations.
type Service struct {
	Repo AnnotationsRepo
	Docs documents.DocumentsRepo
}

// CreateInput carries the fields of a create-or-update request.
type CreateInput struct {
	Kind        string
	PageNumber  int
	SpanText    string
	BoundingBox *BoundingBox
	StrokeData  string
}

// CreateOrUpdate appends a text highlight or upserts the page's drawing.
// The target document must exist and belong to the caller.
func (s *Service) CreateOrUpdate(ctx context.Context, userID, documentID string, in CreateInput) (Annotation, error) {
	if err := s.requireDocument(ctx, userID, documentID); err != nil {
		return Annotation{}, err
	}
	if in.PageNumber < 1 {
		return Annotation{}, ErrInvalidInput
	}

	now := time.Now().UTC()

	switch Kind(in.Kind) {
	case KindDrawing:
		if strings.TrimSpace(in.StrokeData) == "" {
			return Annotation{}, ErrInvalidInput
		}
		ann := Annotation{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			UserID:     userID,
			PageNumber: in.PageNumber,
			Kind:       KindDrawing,
			StrokeData: in.StrokeData,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.Repo.UpsertDrawing(ctx, ann)

	case KindText:
		if in.SpanText == "" || in.BoundingBox == nil {
			return Annotation{}, ErrInvalidInput
		}
		box := *in.BoundingBox
		ann := Annotation{
			ID:          uuid.NewString(),
			DocumentID:  documentID,
			UserID:      userID,
			PageNumber:  in.PageNumber,
			Kind:        KindText,
			SpanText:    in.SpanText,
			BoundingBox: &box,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.CreateText(ctx, ann); err != nil {
			return Annotation{}, err
		}
		return ann, nil

	default:
		return Annotation{}, ErrInvalidInput
	}
}

// List returns all annotations for an owned document, both kinds, unordered.
func (s *Service) List(ctx context.Context, userID, documentID string) ([]Annotation, error) {
	if err := s.requireDocument(ctx, userID, documentID); err != nil {
		return nil, err
	}
	return s.Repo.ListByDocument(ctx, userID, documentID)
}

// UpdateNote sets the note on an owned annotation. An empty note clears it.
func (s *Service) UpdateNote(ctx context.Context, userID, annotationID, note string) (Annotation, error) {
	if annotationID == "" {
		return Annotation{}, ErrNotFound
	}
	return s.Repo.UpdateNote(ctx, userID, annotationID, note)
}

func (s *Service) requireDocument(ctx context.Context, userID, documentID string) error {
	if userID == "" || documentID == "" {
		return ErrNotFound
	}
	if _, err := s.Docs.GetByID(ctx, userID, documentID); err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
