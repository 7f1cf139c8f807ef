package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaService implements EnrichmentService against a local Ollama instance.
// Useful for development without a Gemini key.
type OllamaService struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaService{
		baseURL: baseURL,
		model:   model,
		// Local models can be slow on first load
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

func (o *OllamaService) Summarize(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf("Summarize this personal time capsule message in 2-3 sentences. "+
		"Focus on the key emotions, themes, and important details. Reply with the summary only."+
		"\n\nTitle: %s\nMessage: %s", title, content)

	return o.generate(ctx, prompt, 0.7, 150)
}

func (o *OllamaService) FutureReply(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf("You are the future version of the person who wrote this time capsule "+
		"message 5-10 years ago. Write a warm, encouraging response to your past self. Be specific "+
		"about growth, lessons learned, and perspective gained. Keep it personal and heartfelt. "+
		"Reply with the response only.\n\nOriginal message:\nTitle: %s\nMessage: %s", title, content)

	return o.generate(ctx, prompt, 0.8, 300)
}

func (o *OllamaService) generate(ctx context.Context, prompt string, temperature float64, numPredict int) (string, error) {
	url := o.baseURL + "/api/generate"

	payload := map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": temperature,
			"num_predict": numPredict,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama (is it running at %s?): %w", o.baseURL, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama API error: %s", string(respBody))
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Response)
	if text == "" {
		return "", fmt.Errorf("no text returned")
	}
	return text, nil
}
