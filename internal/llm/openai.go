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

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultSystemPrompt  = "You are a helpful AI assistant."
)

// OpenAIClient is the adapter for the OpenAI chat completions API. It is
// also the default backend for unrecognized model selectors.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAIClient creates a new OpenAI adapter.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: defaultOpenAIBaseURL,
		client:  &http.Client{},
	}
}

// WithBaseURL sets the base URL for the API.
func (c *OpenAIClient) WithBaseURL(baseURL string) *OpenAIClient {
	c.baseURL = baseURL
	return c
}

// WithHTTPClient sets a custom HTTP client.
func (c *OpenAIClient) WithHTTPClient(client *http.Client) *OpenAIClient {
	c.client = client
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// buildUserContent assembles the combined user message: question, optional
// context block, optional web-search block, closing instruction.
func buildUserContent(query, context, webResults string) string {
	var b strings.Builder
	appendBlocks(&b, query, context, webResults)
	b.WriteString("\nProvide a helpful answer.")
	return b.String()
}

// Generate produces an answer for the query. Missing credentials and
// provider faults are returned as answer text, never raised.
func (c *OpenAIClient) Generate(ctx context.Context, query, context, webResults, customPrompt, model string) string {
	if c.apiKey == "" {
		return "Error: OpenAI API key not configured"
	}

	systemPrompt := customPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	answer, err := c.complete(ctx, model, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserContent(query, context, webResults)},
	})
	if err != nil {
		return "Error: " + err.Error()
	}
	return answer
}

func (c *OpenAIClient) complete(ctx context.Context, model string, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: genTemperature,
		MaxTokens:   genMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed chatCompletionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("OpenAI API error: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("OpenAI API error: status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return parsed.Choices[0].Message.Content, nil
}
