package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"pdfmark-backend/internal/llm"
)

var baseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// maxInputChars bounds the document text sent to the provider.
const maxInputChars = 15000

const systemPrompt = "You are a document analysis assistant. Summarize the document in a few " +
	"concise paragraphs and extract the five key phrases a reader should know. " +
	"Respond with JSON only."

// Client implements llm.Client using the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Gemini client.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateRequest struct {
	Contents          []generateContent `json:"contents"`
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig  `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

var summarySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "keyPhrases": {"type": "array", "items": {"type": "string"}, "minItems": 5, "maxItems": 5}
  },
  "required": ["summary", "keyPhrases"]
}`)

// Summarize sends the document text to Gemini and parses the structured reply.
func (c *Client) Summarize(ctx context.Context, input llm.SummarizeInput) (llm.Summary, error) {
	text := truncate(input.Text, maxInputChars)
	if strings.TrimSpace(text) == "" {
		return llm.Summary{}, fmt.Errorf("empty document text")
	}

	reqBody := generateRequest{
		Contents: []generateContent{
			{Role: "user", Parts: []generatePart{{Text: text}}},
		},
		SystemInstruction: &generateContent{
			Parts: []generatePart{{Text: systemPrompt}},
		},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   summarySchema,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Summary{}, err
	}

	url := fmt.Sprintf("%s/%s:generateContent", baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return llm.Summary{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return llm.Summary{}, fmt.Errorf("gemini request timeout: %w", err)
		}
		return llm.Summary{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Summary{}, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.Summary{}, fmt.Errorf("gemini response parse: %w", err)
	}
	if parsed.Error != nil {
		return llm.Summary{}, fmt.Errorf("gemini error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return llm.Summary{}, fmt.Errorf("gemini response missing candidates")
	}

	content := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if content == "" {
		return llm.Summary{}, fmt.Errorf("gemini response empty content")
	}

	var out llm.Summary
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return llm.Summary{}, fmt.Errorf("invalid JSON from gemini: %w", err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return llm.Summary{}, fmt.Errorf("gemini returned empty summary")
	}
	return out, nil
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

var _ llm.Client = (*Client)(nil)
