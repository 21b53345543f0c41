package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pdfmark-backend/internal/documents"
	"pdfmark-backend/internal/llm"
)

type brokenDocsRepo struct {
	documents.DocumentsRepo
}

func (brokenDocsRepo) GetByID(ctx context.Context, userID, documentID string) (documents.Document, error) {
	return documents.Document{}, errors.New("pg: connection refused")
}

func newSummaryRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test-guest")
		c.Next()
	})
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func postSummary(t *testing.T, r *gin.Engine, docID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+docID+"/summary", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var parsed struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return parsed.Error.Code
}

// A database outage is a storage failure, not a provider failure.
func TestSummaryStorageFailureIsInternalError(t *testing.T) {
	r := newSummaryRouter(&Service{DocRepo: brokenDocsRepo{}, LLM: llm.PlaceholderClient{}})

	resp := postSummary(t, r, "doc-1")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", resp.Code, resp.Body.String())
	}
	if code := decodeErrorCode(t, resp); code != "internal_error" {
		t.Fatalf("expected internal_error, got %s", code)
	}
}

func TestSummaryProviderFailureIsBadGateway(t *testing.T) {
	docRepo := documents.NewMemoryRepo()
	err := docRepo.Create(context.Background(), documents.Document{
		ID:            "doc-1",
		UserID:        "guest:test-guest",
		FileName:      "paper.pdf",
		MimeType:      "application/pdf",
		SizeBytes:     10,
		ExtractedText: "the body",
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create doc: %v", err)
	}

	r := newSummaryRouter(&Service{
		DocRepo: docRepo,
		LLM:     &countingLLM{fail: errors.New("provider exploded")},
	})

	resp := postSummary(t, r, "doc-1")
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", resp.Code, resp.Body.String())
	}
	if code := decodeErrorCode(t, resp); code != "llm_error" {
		t.Fatalf("expected llm_error, got %s", code)
	}
}

func TestSummaryUnconfiguredProviderIsServiceUnavailable(t *testing.T) {
	docRepo := documents.NewMemoryRepo()
	err := docRepo.Create(context.Background(), documents.Document{
		ID:            "doc-1",
		UserID:        "guest:test-guest",
		FileName:      "paper.pdf",
		MimeType:      "application/pdf",
		SizeBytes:     10,
		ExtractedText: "the body",
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create doc: %v", err)
	}

	r := newSummaryRouter(&Service{DocRepo: docRepo, LLM: llm.PlaceholderClient{}})

	resp := postSummary(t, r, "doc-1")
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", resp.Code, resp.Body.String())
	}
	if code := decodeErrorCode(t, resp); code != "llm_unavailable" {
		t.Fatalf("expected llm_unavailable, got %s", code)
	}
}
