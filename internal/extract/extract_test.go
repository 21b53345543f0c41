package extract

import (
	"context"
	"testing"
)

func TestPDFTextRejectsEmptyPayload(t *testing.T) {
	if _, err := PDFText(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestPDFTextRejectsGarbage(t *testing.T) {
	if _, err := PDFText(context.Background(), []byte("definitely not a pdf")); err == nil {
		t.Fatal("expected error for non-PDF payload")
	}
}

func TestPDFTextHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PDFText(ctx, []byte("%PDF-1.4")); err == nil {
		t.Fatal("expected context error")
	}
}
