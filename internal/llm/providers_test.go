package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, status int, body string, inspect func(r *http.Request, payload map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if inspect != nil {
			inspect(r, payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiComplete(t *testing.T) {
	var gotPath, gotKey, gotText string
	srv := jsonServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"Once upon a time"}]}}],"usageMetadata":{"totalTokenCount":42}}`,
		func(r *http.Request, payload map[string]any) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("key")
			contents := payload["contents"].([]any)
			parts := contents[0].(map[string]any)["parts"].([]any)
			gotText = parts[0].(map[string]any)["text"].(string)
		})

	g := NewGemini(srv.URL, "k-123", "gemini-1.5-flash", 5*time.Second)
	resp, err := g.Complete(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "/v1/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "k-123", gotKey)
	assert.Equal(t, "hello", gotText)
	assert.Equal(t, "Once upon a time", resp.Content)
	assert.Equal(t, "gemini", resp.Provider)
	assert.Equal(t, 42, resp.TokensUsed)
}

func TestGeminiNoCandidates(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"candidates":[]}`, nil)

	resp, err := NewGemini(srv.URL, "k", "m", time.Second).Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, resp.Content)
}

func TestGeminiErrorStatus(t *testing.T) {
	srv := jsonServer(t, http.StatusForbidden, `{"error":{"message":"API key not valid"}}`, nil)

	_, err := NewGemini(srv.URL, "bad", "m", time.Second).Complete(context.Background(), "hello")
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "gemini", perr.Provider)
	assert.Contains(t, err.Error(), "403")
}

func TestGeminiUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewGemini(url, "k", "m", time.Second).Complete(context.Background(), "hello")
	var perr *ProviderError
	assert.True(t, errors.As(err, &perr), "got %v", err)
}

func TestAnthropicComplete(t *testing.T) {
	var gotKey, gotPath string
	srv := jsonServer(t, http.StatusOK,
		`{"content":[{"text":"A memory"}],"usage":{"input_tokens":10,"output_tokens":5}}`,
		func(r *http.Request, payload map[string]any) {
			gotKey = r.Header.Get("x-api-key")
			gotPath = r.URL.Path
		})

	resp, err := NewAnthropic(srv.URL, "ak", "claude", time.Second).Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ak", gotKey)
	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "A memory", resp.Content)
	assert.Equal(t, 15, resp.TokensUsed)
}

func TestOllamaComplete(t *testing.T) {
	var gotModel any
	srv := jsonServer(t, http.StatusOK, `{"response":"Sunny days","eval_count":3,"prompt_eval_count":4}`,
		func(r *http.Request, payload map[string]any) {
			gotModel = payload["model"]
		})

	resp, err := NewOllama(srv.URL, "llama3.2", time.Second).Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", gotModel)
	assert.Equal(t, "Sunny days", resp.Content)
	assert.Equal(t, 7, resp.TokensUsed)
}

func TestOllamaBadJSON(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `not json`, nil)

	_, err := NewOllama(srv.URL, "llama3.2", time.Second).Complete(context.Background(), "hi")
	var perr *ProviderError
	assert.True(t, errors.As(err, &perr), "got %v", err)
}
