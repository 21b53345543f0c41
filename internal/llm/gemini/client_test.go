package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"pdfmark-backend/internal/llm"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "gemini-2.0-flash", time.Minute); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("key", "  ", time.Minute); err == nil {
		t.Fatal("expected error for missing model")
	}
	c, err := NewClient("key", "gemini-2.0-flash", 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.httpClient.Timeout <= 0 {
		t.Fatalf("expected default timeout, got %v", c.httpClient.Timeout)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	orig := baseURL
	baseURL = srv.URL
	t.Cleanup(func() { baseURL = orig })

	c, err := NewClient("test-key", "gemini-2.0-flash", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func candidateBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return body
}

func TestSummarizeParsesStructuredResponse(t *testing.T) {
	want := llm.Summary{
		Summary:    "a short summary",
		KeyPhrases: []string{"one", "two", "three", "four", "five"},
	}
	inner, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}

	var gotKey, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		_, _ = w.Write(candidateBody(t, string(inner)))
	})

	out, err := c.Summarize(context.Background(), llm.SummarizeInput{Text: "the document body"})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out.Summary != want.Summary {
		t.Fatalf("expected summary %q, got %q", want.Summary, out.Summary)
	}
	if len(out.KeyPhrases) != 5 || out.KeyPhrases[0] != "one" {
		t.Fatalf("unexpected key phrases: %v", out.KeyPhrases)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if !strings.Contains(gotPath, "gemini-2.0-flash:generateContent") {
		t.Fatalf("unexpected request path %q", gotPath)
	}
}

func TestSummarizeSurfacesErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := c.Summarize(context.Background(), llm.SummarizeInput{Text: "body"})
	if err == nil {
		t.Fatal("expected error from error envelope")
	}
	if !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("expected provider message in error, got %v", err)
	}
}

func TestSummarizeRejectsMalformedResponses(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no candidates", `{}`},
		{"empty parts", `{"candidates":[{"content":{"parts":[]}}]}`},
		{"non-json content", `{"candidates":[{"content":{"parts":[{"text":"not json at all"}]}}]}`},
		{"empty summary", `{"candidates":[{"content":{"parts":[{"text":"{\"summary\":\"\",\"keyPhrases\":[]}"}]}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})
			if _, err := c.Summarize(context.Background(), llm.SummarizeInput{Text: "body"}); err == nil {
				t.Fatal("expected error for malformed response")
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", maxInputChars+100)
	if got := truncate(long, maxInputChars); len(got) != maxInputChars {
		t.Fatalf("expected %d chars, got %d", maxInputChars, len(got))
	}
	if got := truncate("short", maxInputChars); got != "short" {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	// Three-byte runes with a limit that falls mid-rune.
	s := strings.Repeat("界", 10)
	got := truncate(s, 8)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated string is not valid UTF-8: %q", got)
	}
	if len(got) != 6 {
		t.Fatalf("expected cut at rune boundary (6 bytes), got %d", len(got))
	}
}
