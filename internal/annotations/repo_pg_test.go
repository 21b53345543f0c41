package annotations

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsertDrawingReturnsStoredRow(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	ann := Annotation{
		ID:         "ann-1",
		DocumentID: "doc-1",
		UserID:     "user-1",
		PageNumber: 2,
		Kind:       KindDrawing,
		StrokeData: `{"paths":[]}`,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	cols := []string{"id", "document_id", "user_id", "page_number", "kind", "span_text", "bounding_box", "stroke_data", "note", "created_at", "updated_at"}
	existing := now.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (document_id, user_id, page_number) WHERE kind = 'drawing'")).
		WithArgs(ann.ID, ann.DocumentID, ann.UserID, ann.PageNumber, ann.StrokeData, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("ann-earlier", "doc-1", "user-1", 2, "drawing", nil, nil, ann.StrokeData, "kept note", existing, now))

	got, err := repo.UpsertDrawing(context.Background(), ann)
	if err != nil {
		t.Fatalf("UpsertDrawing: %v", err)
	}
	if got.ID != "ann-earlier" {
		t.Fatalf("expected stored row id, got %s", got.ID)
	}
	if got.Note != "kept note" {
		t.Fatalf("expected stored note, got %q", got.Note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateTextInsertsBoundingBox(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	ann := Annotation{
		ID:          "ann-1",
		DocumentID:  "doc-1",
		UserID:      "user-1",
		PageNumber:  1,
		Kind:        KindText,
		SpanText:    "quote",
		BoundingBox: &BoundingBox{Left: 0.1, Top: 0.2, Width: 0.3, Height: 0.4},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO annotations").
		WithArgs(ann.ID, ann.DocumentID, ann.UserID, ann.PageNumber, ann.SpanText, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.CreateText(context.Background(), ann); err != nil {
		t.Fatalf("CreateText: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateNoteMissingRowIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	cols := []string{"id", "document_id", "user_id", "page_number", "kind", "span_text", "bounding_box", "stroke_data", "note", "created_at", "updated_at"}
	mock.ExpectQuery("UPDATE annotations").
		WithArgs("new note", "user-1", "missing").
		WillReturnRows(sqlmock.NewRows(cols))

	if _, err := repo.UpdateNote(context.Background(), "user-1", "missing", "new note"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListScansBothKinds(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	cols := []string{"id", "document_id", "user_id", "page_number", "kind", "span_text", "bounding_box", "stroke_data", "note", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM annotations").
		WithArgs("doc-1", "user-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("ann-1", "doc-1", "user-1", 1, "text", "quote", []byte(`{"left":0.1,"top":0.2,"width":0.3,"height":0.4}`), nil, "", now, now).
			AddRow("ann-2", "doc-1", "user-1", 2, "drawing", nil, nil, `{"paths":[]}`, "note", now, now))

	anns, err := repo.ListByDocument(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("ListByDocument: %v", err)
	}
	if len(anns) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(anns))
	}
	if anns[0].BoundingBox == nil || anns[0].BoundingBox.Width != 0.3 {
		t.Fatalf("expected bounding box decoded, got %+v", anns[0].BoundingBox)
	}
	if anns[1].StrokeData != `{"paths":[]}` {
		t.Fatalf("expected stroke data decoded, got %q", anns[1].StrokeData)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
