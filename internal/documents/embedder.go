package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultEmbeddingBaseURL = "https://api.openai.com/v1"
	defaultEmbeddingModel   = "text-embedding-ada-002"
)

// Embedding faults that callers may want to surface with a distinguishable
// message. Anything else wraps the provider's own description.
var (
	ErrQuotaExceeded     = errors.New("embedding provider quota exceeded")
	ErrInvalidCredential = errors.New("embedding provider API key invalid or missing")
)

// Embedder produces embedding vectors for document chunks and queries.
type Embedder interface {
	// EmbedTexts returns one embedding per input text, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedQuery returns the embedding of a single query string.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// OpenAIEmbedder is an HTTP implementation of the Embedder interface backed
// by the OpenAI embeddings API.
type OpenAIEmbedder struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIEmbedder creates a new OpenAIEmbedder with default endpoint and model.
func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		apiKey:  apiKey,
		baseURL: defaultEmbeddingBaseURL,
		model:   defaultEmbeddingModel,
		client:  &http.Client{},
	}
}

// WithBaseURL sets the base URL for the API.
func (e *OpenAIEmbedder) WithBaseURL(baseURL string) *OpenAIEmbedder {
	e.baseURL = baseURL
	return e
}

// WithHTTPClient sets a custom HTTP client.
func (e *OpenAIEmbedder) WithHTTPClient(client *http.Client) *OpenAIEmbedder {
	e.client = client
	return e
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedTexts returns one embedding per input text, in input order.
func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts to embed")
	}
	if e.apiKey == "" {
		return nil, ErrInvalidCredential
	}

	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyEmbeddingFault(resp.StatusCode, resp.Body)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(parsed.Data))
	}

	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

// EmbedQuery returns the embedding of a single query string.
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, errors.New("empty query")
	}
	embs, err := e.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return embs[0], nil
}

// classifyEmbeddingFault maps provider HTTP faults onto the distinguishable
// error values. The body-sniffing heuristic follows the provider's error
// payloads and is best-effort.
func classifyEmbeddingFault(status int, body io.Reader) error {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	switch {
	case status == http.StatusTooManyRequests || strings.Contains(string(raw), "insufficient_quota"):
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, strings.TrimSpace(string(raw)))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidCredential, strings.TrimSpace(string(raw)))
	default:
		return fmt.Errorf("embedding provider error (status %d): %s", status, strings.TrimSpace(string(raw)))
	}
}
