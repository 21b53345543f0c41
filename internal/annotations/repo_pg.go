package annotations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const annotationColumns = `id, document_id, user_id, page_number, kind, span_text, bounding_box, stroke_data, note, created_at, updated_at`

// PGRepo implements AnnotationsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateText appends a new text highlight row.
func (r *PGRepo) CreateText(ctx context.Context, ann Annotation) error {
	box, err := json.Marshal(ann.BoundingBox)
	if err != nil {
		return fmt.Errorf("marshal bounding box: %w", err)
	}
	const query = `
INSERT INTO annotations (
    id,
    document_id,
    user_id,
    page_number,
    kind,
    span_text,
    bounding_box,
    stroke_data,
    note,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, 'text', $5, $6, NULL, '', $7, $8)`

	_, err = r.DB.ExecContext(
		ctx,
		query,
		ann.ID,
		ann.DocumentID,
		ann.UserID,
		ann.PageNumber,
		ann.SpanText,
		box,
		ann.CreatedAt,
		ann.UpdatedAt,
	)
	return err
}

// UpsertDrawing creates or replaces the page's drawing in one atomic write.
// The conflict target is the partial unique index on
// (document_id, user_id, page_number) WHERE kind = 'drawing', so a replaced
// row keeps its id and note.
func (r *PGRepo) UpsertDrawing(ctx context.Context, ann Annotation) (Annotation, error) {
	query := `
INSERT INTO annotations (
    id,
    document_id,
    user_id,
    page_number,
    kind,
    span_text,
    bounding_box,
    stroke_data,
    note,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, 'drawing', NULL, NULL, $5, '', $6, $6)
ON CONFLICT (document_id, user_id, page_number) WHERE kind = 'drawing'
DO UPDATE SET stroke_data = EXCLUDED.stroke_data, updated_at = EXCLUDED.updated_at
RETURNING ` + annotationColumns

	row := r.DB.QueryRowContext(
		ctx,
		query,
		ann.ID,
		ann.DocumentID,
		ann.UserID,
		ann.PageNumber,
		ann.StrokeData,
		ann.UpdatedAt,
	)
	return scanAnnotation(row)
}

// ListByDocument returns all annotations for a document and owner.
func (r *PGRepo) ListByDocument(ctx context.Context, userID, documentID string) ([]Annotation, error) {
	query := `
SELECT ` + annotationColumns + `
FROM annotations
WHERE document_id = $1 AND user_id = $2`

	rows, err := r.DB.QueryContext(ctx, query, documentID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Annotation
	for rows.Next() {
		ann, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ann)
	}
	return out, rows.Err()
}

// UpdateNote sets the note on an owned annotation and returns the updated row.
func (r *PGRepo) UpdateNote(ctx context.Context, userID, annotationID, note string) (Annotation, error) {
	query := `
UPDATE annotations
SET note = $1, updated_at = now()
WHERE user_id = $2 AND id = $3
RETURNING ` + annotationColumns

	row := r.DB.QueryRowContext(ctx, query, note, userID, annotationID)
	ann, err := scanAnnotation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Annotation{}, ErrNotFound
		}
		return Annotation{}, err
	}
	return ann, nil
}

// DeleteByDocument removes every annotation for a document and owner.
func (r *PGRepo) DeleteByDocument(ctx context.Context, userID, documentID string) error {
	const query = `DELETE FROM annotations WHERE document_id = $1 AND user_id = $2`
	_, err := r.DB.ExecContext(ctx, query, documentID, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnotation(row rowScanner) (Annotation, error) {
	var ann Annotation
	var spanText sql.NullString
	var strokeData sql.NullString
	var box []byte
	if err := row.Scan(
		&ann.ID,
		&ann.DocumentID,
		&ann.UserID,
		&ann.PageNumber,
		&ann.Kind,
		&spanText,
		&box,
		&strokeData,
		&ann.Note,
		&ann.CreatedAt,
		&ann.UpdatedAt,
	); err != nil {
		return Annotation{}, err
	}
	if spanText.Valid {
		ann.SpanText = spanText.String
	}
	if strokeData.Valid {
		ann.StrokeData = strokeData.String
	}
	if len(box) > 0 {
		var parsed BoundingBox
		if err := json.Unmarshal(box, &parsed); err != nil {
			return Annotation{}, fmt.Errorf("unmarshal bounding box: %w", err)
		}
		ann.BoundingBox = &parsed
	}
	return ann, nil
}

var _ AnnotationsRepo = (*PGRepo)(nil)
