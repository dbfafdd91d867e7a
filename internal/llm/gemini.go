package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient is the adapter for Google's Gemini generateContent API.
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeminiClient creates a new Gemini adapter.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{},
	}
}

// WithBaseURL sets the base URL for the API.
func (c *GeminiClient) WithBaseURL(baseURL string) *GeminiClient {
	c.baseURL = baseURL
	return c
}

// WithHTTPClient sets a custom HTTP client.
func (c *GeminiClient) WithHTTPClient(client *http.Client) *GeminiClient {
	c.client = client
	return c
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// resolveGeminiModel maps a user-facing selector onto a concrete Gemini
// model name.
func resolveGeminiModel(model string) string {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "flash"):
		return "gemini-1.5-flash"
	case strings.Contains(model, "1.5"):
		return "gemini-1.5-pro"
	default:
		return "gemini-pro"
	}
}

// buildGeminiPrompt assembles the single combined prompt: optional custom
// instructions, question, optional context and web-search blocks, closing
// instruction.
func buildGeminiPrompt(query, context, webResults, customPrompt string) string {
	var b strings.Builder
	if customPrompt != "" {
		b.WriteString("Instructions: " + customPrompt + "\n\n")
	}
	appendBlocks(&b, query, context, webResults)
	b.WriteString("\nPlease provide a helpful answer.")
	return b.String()
}

// Generate produces an answer for the query. Missing credentials and
// provider faults are returned as answer text, never raised.
func (c *GeminiClient) Generate(ctx context.Context, query, context, webResults, customPrompt, model string) string {
	if c.apiKey == "" {
		return "Error: Gemini API key not configured"
	}

	answer, err := c.generateContent(ctx, resolveGeminiModel(model), buildGeminiPrompt(query, context, webResults, customPrompt))
	if err != nil {
		return "Error generating with Gemini: " + err.Error()
	}
	return answer
}

func (c *GeminiClient) generateContent(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(generateContentRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     genTemperature,
			MaxOutputTokens: genMaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed generateContentResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("Gemini API error: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("Gemini API error: status %d", resp.StatusCode)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var answer strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		answer.WriteString(part.Text)
	}
	return answer.String(), nil
}
