package ai

import "context"

// EnrichmentService is the interface for AI capsule enrichment.
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type EnrichmentService interface {
	// Summarize produces a 2-3 sentence summary of the capsule message,
	// focused on its themes and emotions.
	Summarize(ctx context.Context, title, content string) (string, error)
	// FutureReply produces a warm first-person reply written as the
	// author's future self looking back on the message.
	FutureReply(ctx context.Context, title, content string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
)
