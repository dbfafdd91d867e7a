// Package llm dispatches generation requests to language-model provider
// adapters. All failures inside this package become answer text; nothing here
// returns an error to its callers.
package llm

import "strings"

// Provider identifies a language-model backend family.
type Provider int

const (
	// ProviderOpenAI is the default backend for any unrecognized selector.
	ProviderOpenAI Provider = iota
	ProviderGemini
)

// String returns the provider family name.
func (p Provider) String() string {
	if p == ProviderGemini {
		return "gemini"
	}
	return "openai"
}

// ResolveProvider maps a model selector string onto a provider. Selectors
// containing the Gemini family token route to Gemini; everything else,
// including empty and unknown selectors, falls back to OpenAI. An unknown
// model name never fails at dispatch time.
func ResolveProvider(model string) Provider {
	if strings.Contains(strings.ToLower(model), "gemini") {
		return ProviderGemini
	}
	return ProviderOpenAI
}

// Request is a provider-agnostic generation request assembled by the
// workflow pipeline.
type Request struct {
	Query        string
	Context      string
	Model        string
	CustomPrompt string
	UseWebSearch bool
}

// Fixed sampling parameters shared by both adapters.
const (
	genTemperature = 0.7
	genMaxTokens   = 500
)

// appendBlocks assembles the shared tail of a prompt: the question, then the
// optional context and web-search blocks, each included only when non-empty.
func appendBlocks(b *strings.Builder, query, context, webResults string) {
	b.WriteString("Question: " + query + "\n")
	if context != "" {
		b.WriteString("\nContext from documents:\n" + context + "\n")
	}
	if webResults != "" {
		b.WriteString("\nWeb search results:\n" + webResults + "\n")
	}
}
