package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Service calls the Gemini generateContent API over plain HTTP.
type Service struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewService(apiKey string) *Service {
	return &Service{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
}

// NewServiceWithBaseURL points the service at a non-default endpoint (tests).
func NewServiceWithBaseURL(apiKey, baseURL string) *Service {
	s := NewService(apiKey)
	s.baseURL = baseURL
	return s
}

// Summarize produces a short summary of a capsule message.
// Output is bounded to a small token budget so it stays at 2-3 sentences.
func (s *Service) Summarize(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf("Summarize this personal time capsule message in 2-3 sentences. "+
		"Focus on the key emotions, themes, and important details:\n\nTitle: %s\nMessage: %s",
		title, content)

	return s.generate(ctx, prompt, 150, 0.7)
}

// FutureReply produces the "future self" response to a capsule message.
// Larger budget and higher temperature than Summarize: the reply should read
// warm and personal rather than clipped.
func (s *Service) FutureReply(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf("You are the future version of the person who wrote this time capsule "+
		"message 5-10 years ago. You are wiser, more experienced, and reflecting back on this "+
		"moment in your life. Write a warm, encouraging response to your past self. Be specific "+
		"about growth, lessons learned, and perspective gained. Keep it personal and heartfelt."+
		"\n\nOriginal message:\nTitle: %s\nMessage: %s",
		title, content)

	return s.generate(ctx, prompt, 300, 0.8)
}

func (s *Service) generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	// gemini-2.5-flash: fast enough to run inline with a request
	url := fmt.Sprintf("%s/models/gemini-2.5-flash:generateContent?key=%s", s.baseURL, s.apiKey)

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": maxTokens,
			"temperature":     temperature,
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error: %s", string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	// Walk candidates[0].content.parts[0].text
	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}
	return "", fmt.Errorf("no text returned")
}
