package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const documentColumns = `id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, extracted_text, summary, key_phrases, created_at, updated_at`

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    extracted_text,
    summary,
    key_phrases,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, NULL, $9, $10)`

	storageProvider := doc.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		storageProvider,
		doc.StorageKey,
		doc.ExtractedText,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userID, documentID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Rename updates the display name and returns the updated document.
func (r *PGRepo) Rename(ctx context.Context, userID, documentID, newName string) (Document, error) {
	query := `
UPDATE documents
SET file_name = $1, updated_at = now()
WHERE user_id = $2 AND id = $3
RETURNING ` + documentColumns
	row := r.DB.QueryRowContext(ctx, query, newName, userID, documentID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// UpdateSummary caches the summarization result; an already-cached summary is
// never overwritten.
func (r *PGRepo) UpdateSummary(ctx context.Context, userID, documentID, summary string, keyPhrases []string) error {
	phrases, err := json.Marshal(keyPhrases)
	if err != nil {
		return fmt.Errorf("marshal key phrases: %w", err)
	}
	const query = `
UPDATE documents
SET summary = $1, key_phrases = $2, updated_at = now()
WHERE user_id = $3 AND id = $4 AND summary IS NULL`
	_, err = r.DB.ExecContext(ctx, query, summary, phrases, userID, documentID)
	return err
}

// Delete removes a document record.
func (r *PGRepo) Delete(ctx context.Context, userID, documentID string) error {
	const query = `DELETE FROM documents WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var summary sql.NullString
	var keyPhrases []byte
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageProvider,
		&doc.StorageKey,
		&doc.ExtractedText,
		&summary,
		&keyPhrases,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}
	if summary.Valid {
		doc.Summary = summary.String
	}
	if len(keyPhrases) > 0 {
		if err := json.Unmarshal(keyPhrases, &doc.KeyPhrases); err != nil {
			return Document{}, fmt.Errorf("unmarshal key phrases: %w", err)
		}
	}
	return doc, nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
