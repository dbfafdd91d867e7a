package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultSerpBaseURL = "https://serpapi.com"
	searchResultCap    = 3
	searchTimeout      = 10 * time.Second
)

// Searcher performs a web search and returns results formatted for prompt
// inclusion.
type Searcher interface {
	// Search returns formatted results for the query, or "" when nothing
	// usable came back.
	Search(ctx context.Context, query string) (string, error)
}

// SerpClient is a SerpAPI implementation of the Searcher interface.
type SerpClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerpClient creates a new SerpAPI search client.
func NewSerpClient(apiKey string) *SerpClient {
	return &SerpClient{
		apiKey:  apiKey,
		baseURL: defaultSerpBaseURL,
		client:  &http.Client{},
	}
}

// WithBaseURL sets the base URL for the API.
func (c *SerpClient) WithBaseURL(baseURL string) *SerpClient {
	c.baseURL = baseURL
	return c
}

type serpResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Search queries SerpAPI and formats each result as "title: snippet", joined
// with blank lines, capped at searchResultCap entries. A missing API key
// resolves to no results rather than an error.
func (c *SerpClient) Search(ctx context.Context, query string) (string, error) {
	if c.apiKey == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", fmt.Sprint(searchResultCap))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search error: status %d", resp.StatusCode)
	}

	var parsed serpResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}

	// The cap applies to raw organic results; an entry inside the window
	// that lacks a title or snippet reduces the count rather than pulling
	// in a later result.
	organic := parsed.OrganicResults
	if len(organic) > searchResultCap {
		organic = organic[:searchResultCap]
	}

	var results []string
	for _, r := range organic {
		if r.Title == "" || r.Snippet == "" {
			continue
		}
		results = append(results, r.Title+": "+r.Snippet)
	}

	return strings.Join(results, "\n\n"), nil
}
