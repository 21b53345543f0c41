package summarize

import (
	"context"
	"errors"
	"time"

	"pdfmark-backend/internal/documents"
	"pdfmark-backend/internal/llm"
	"pdfmark-backend/internal/shared/metrics"
	"pdfmark-backend/internal/shared/telemetry"
)

// Service produces and caches document summaries.
type Service struct {
	DocRepo documents.DocumentsRepo
	LLM     llm.Client
}

// Result is a summary together with whether it was served from cache.
type Result struct {
	Summary    string
	KeyPhrases []string
	Cached     bool
}

// Summarize returns the document's summary, calling the provider only on the
// first request. Later requests are served from the cached result without
// touching the LLM.
func (s *Service) Summarize(ctx context.Context, userID, documentID string) (Result, error) {
	if userID == "" || documentID == "" {
		return Result{}, ErrNotFound
	}

	doc, err := s.DocRepo.GetByID(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}

	metrics.IncSummaryRequested()

	if doc.HasSummary() {
		metrics.IncSummaryCacheHit()
		return Result{Summary: doc.Summary, KeyPhrases: doc.KeyPhrases, Cached: true}, nil
	}

	if doc.ExtractedText == "" {
		return Result{}, ErrNoText
	}

	started := time.Now()
	out, err := s.LLM.Summarize(ctx, llm.SummarizeInput{Text: doc.ExtractedText})
	if err != nil {
		metrics.IncSummaryFailed()
		return Result{}, &ProviderError{Err: err}
	}
	metrics.ObserveSummaryDurationMs(float64(time.Since(started)) / float64(time.Millisecond))

	if err := s.DocRepo.UpdateSummary(ctx, userID, documentID, out.Summary, out.KeyPhrases); err != nil {
		// The summary is still valid for this response even if the cache
		// write fails.
		telemetry.Error("summary.cache_failed", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
	}

	return Result{Summary: out.Summary, KeyPhrases: out.KeyPhrases}, nil
}
