package llm

import (
	"context"

	"workflow-builder/backend/internal/logging"
)

// Service routes generation requests to the right provider adapter,
// optionally augmenting the prompt with web-search results first.
type Service struct {
	openai *OpenAIClient
	gemini *GeminiClient
	search Searcher
	logger *logging.Logger
}

// NewService creates a new dispatcher Service from provider credentials.
// Empty credentials are allowed; the affected adapter then answers with its
// missing-credential diagnostic instead of calling out.
func NewService(openAIKey, geminiKey, serpAPIKey string, logger *logging.Logger) *Service {
	return &Service{
		openai: NewOpenAIClient(openAIKey),
		gemini: NewGeminiClient(geminiKey),
		search: NewSerpClient(serpAPIKey),
		logger: logger,
	}
}

// GenerateResponse produces a single text answer for the request. It never
// returns an error: credential problems and provider faults all come back as
// answer text, and a web-search fault degrades to no search results.
func (s *Service) GenerateResponse(ctx context.Context, req Request) string {
	webResults := ""
	if req.UseWebSearch {
		results, err := s.search.Search(ctx, req.Query)
		if err != nil {
			s.logger.Error("Web search failed: %v", err)
		} else {
			webResults = results
		}
	}

	switch ResolveProvider(req.Model) {
	case ProviderGemini:
		return s.gemini.Generate(ctx, req.Query, req.Context, webResults, req.CustomPrompt, req.Model)
	default:
		return s.openai.Generate(ctx, req.Query, req.Context, webResults, req.CustomPrompt, req.Model)
	}
}
