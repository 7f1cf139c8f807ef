package ai

import (
	"fmt"

	"github.com/Ashutosh26l/samay-capsule/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini" or "ollama"

	// Gemini config
	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewEnrichmentService creates an EnrichmentService based on the config.
// Switch AI provider by changing config.Provider.
func NewEnrichmentService(cfg Config) (EnrichmentService, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return gemini.NewService(cfg.GeminiAPIKey), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		// Default to Gemini if an API key is available, otherwise Ollama
		if cfg.GeminiAPIKey != "" {
			return gemini.NewService(cfg.GeminiAPIKey), nil
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	}
}
