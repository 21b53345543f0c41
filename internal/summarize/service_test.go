package summarize

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"pdfmark-backend/internal/documents"
	"pdfmark-backend/internal/llm"
)

type countingLLM struct {
	calls int
	fail  error
}

func (c *countingLLM) Summarize(ctx context.Context, input llm.SummarizeInput) (llm.Summary, error) {
	_ = ctx
	c.calls++
	if c.fail != nil {
		return llm.Summary{}, c.fail
	}
	return llm.Summary{
		Summary:    fmt.Sprintf("summary of %d chars", len(input.Text)),
		KeyPhrases: []string{"alpha", "beta"},
	}, nil
}

func setupService(t *testing.T, extractedText string, client llm.Client) (*Service, string, string) {
	t.Helper()
	docRepo := documents.NewMemoryRepo()

	userID := "user-1"
	doc := documents.Document{
		ID:            "doc-1",
		UserID:        userID,
		FileName:      "paper.pdf",
		MimeType:      "application/pdf",
		SizeBytes:     100,
		ExtractedText: extractedText,
		CreatedAt:     time.Now().UTC(),
	}
	if err := docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create doc: %v", err)
	}

	return &Service{DocRepo: docRepo, LLM: client}, userID, doc.ID
}

func TestSummarizeCallsProviderOnceAndCaches(t *testing.T) {
	client := &countingLLM{}
	svc, userID, docID := setupService(t, "the document body", client)

	first, err := svc.Summarize(context.Background(), userID, docID)
	if err != nil {
		t.Fatalf("first Summarize: %v", err)
	}
	if first.Cached {
		t.Fatal("first summary should not be cached")
	}
	if first.Summary == "" || len(first.KeyPhrases) != 2 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second, err := svc.Summarize(context.Background(), userID, docID)
	if err != nil {
		t.Fatalf("second Summarize: %v", err)
	}
	if !second.Cached {
		t.Fatal("second summary should come from cache")
	}
	if second.Summary != first.Summary {
		t.Fatalf("cached summary differs: %q vs %q", second.Summary, first.Summary)
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one provider call, got %d", client.calls)
	}
}

func TestSummarizeWithoutTextFailsPrecondition(t *testing.T) {
	client := &countingLLM{}
	svc, userID, docID := setupService(t, "", client)

	if _, err := svc.Summarize(context.Background(), userID, docID); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("provider should not be called without text, got %d calls", client.calls)
	}
}

func TestSummarizeForeignDocumentIsNotFound(t *testing.T) {
	svc, _, docID := setupService(t, "text", &countingLLM{})

	if _, err := svc.Summarize(context.Background(), "someone-else", docID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummarizeSurfacesProviderErrors(t *testing.T) {
	svc, userID, docID := setupService(t, "text", llm.PlaceholderClient{})
	if _, err := svc.Summarize(context.Background(), userID, docID); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	boom := errors.New("provider exploded")
	svc, userID, docID = setupService(t, "text", &countingLLM{fail: boom})
	if _, err := svc.Summarize(context.Background(), userID, docID); !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
