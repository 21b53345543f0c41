package documents

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pdfmark-backend/internal/extract"
	"pdfmark-backend/internal/shared/metrics"
	"pdfmark-backend/internal/shared/storage/object"
	"pdfmark-backend/internal/shared/telemetry"
)

// AnnotationsPurger removes all annotations for a document during cascade delete.
type AnnotationsPurger interface {
	DeleteByDocument(ctx context.Context, userID, documentID string) error
}

// Service contains business logic for documents.
type Service struct {
	Store           object.ObjectStore
	Repo            DocumentsRepo
	Annotations     AnnotationsPurger
	StorageProvider string
}

// Upload stores the PDF, extracts its text best-effort, and records the document.
// A PDF with no extractable text still uploads fine with empty ExtractedText.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, ErrInvalidInput
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	if len(raw) == 0 {
		return Document{}, ErrInvalidInput
	}
	if !isPDF(raw) {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(raw))
	if err != nil {
		return Document{}, err
	}

	text, err := extract.PDFText(ctx, raw)
	if err != nil {
		telemetry.Error("document.extract_failed", map[string]any{
			"user_id":   userID,
			"file_name": fileName,
			"error":     err.Error(),
		})
		text = ""
	}

	now := time.Now().UTC()
	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      storageKey,
		ExtractedText:   text,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	metrics.IncDocumentUploaded()
	return doc, nil
}

// List returns the caller's documents, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Document, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Get fetches one owned document.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || documentID == "" {
		return Document{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// Rename updates the display name of an owned document.
func (s *Service) Rename(ctx context.Context, userID, documentID, newName string) (Document, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.Rename(ctx, userID, documentID, newName)
}

// Delete removes the stored binary best-effort, then all annotations, then the
// document record. Annotations go before the record so a failure mid-way never
// leaves a visible document with dangling annotations; an orphaned binary is
// tolerated and logged.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return err
	}

	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Error("document.binary_delete_failed", map[string]any{
			"user_id":     userID,
			"document_id": documentID,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
	}

	if s.Annotations != nil {
		if err := s.Annotations.DeleteByDocument(ctx, userID, documentID); err != nil {
			return err
		}
	}

	if err := s.Repo.Delete(ctx, userID, documentID); err != nil {
		return err
	}
	metrics.IncDocumentDeleted()
	return nil
}

// OpenFile returns a reader over the stored binary of an owned document.
func (s *Service) OpenFile(ctx context.Context, userID, documentID string) (io.ReadCloser, Document, error) {
	doc, err := s.Repo.GetByID(ctx, userID, documentID)
	if err != nil {
		return nil, Document{}, err
	}
	rc, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return nil, Document{}, err
	}
	return rc, doc, nil
}

func isPDF(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), extract.MimePDF)
}
