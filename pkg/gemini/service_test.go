package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateJSON(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
}

func TestSummarizeParsesCandidate(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(candidateJSON("A hopeful note about a new job."))
	}))
	defer srv.Close()

	svc := NewServiceWithBaseURL("test-key", srv.URL)
	out, err := svc.Summarize(context.Background(), "New beginnings", "I started today.")
	require.NoError(t, err)
	assert.Equal(t, "A hopeful note about a new job.", out)

	// Summary calls carry the short output budget.
	genCfg := gotBody["generationConfig"].(map[string]interface{})
	assert.Equal(t, float64(150), genCfg["maxOutputTokens"])
}

func TestGenerateNonOKIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := NewServiceWithBaseURL("test-key", srv.URL)
	_, err := svc.FutureReply(context.Background(), "t", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateEmptyCandidatesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer srv.Close()

	svc := NewServiceWithBaseURL("test-key", srv.URL)
	_, err := svc.Summarize(context.Background(), "t", "c")
	require.Error(t, err)
}
