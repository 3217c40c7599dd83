package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-stack/nexus/internal/config"
	"github.com/nexus-stack/nexus/internal/errors"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient("ollama", config.ProviderConfig{})
	assert.NoError(t, err, "ollama needs no API key")

	_, err = NewClient("openai", config.ProviderConfig{})
	assert.True(t, errors.HasCode(err, errors.CodeAIMissingKey))

	_, err = NewClient("openai", config.ProviderConfig{APIKey: "sk-x"})
	assert.NoError(t, err)

	_, err = NewClient("skynet", config.ProviderConfig{})
	assert.True(t, errors.HasCode(err, errors.CodeAIUnknownProvider))
}

func TestOllamaClient_Ask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "what is a pointer", req.Prompt)
		assert.False(t, req.Stream)
		assert.NotEmpty(t, req.System)

		json.NewEncoder(w).Encode(ollamaResponse{Response: "  an address  "})
	}))
	defer srv.Close()

	c := newOllama(config.ProviderConfig{BaseURL: srv.URL})
	answer, err := c.Ask(context.Background(), "what is a pointer")
	require.NoError(t, err)
	assert.Equal(t, "an address", answer, "responses are trimmed")
}

func TestChatClient_Ask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "forty-two"}},
			},
		})
	}))
	defer srv.Close()

	c := newOpenAI(config.ProviderConfig{APIKey: "sk-test", BaseURL: srv.URL})
	answer, err := c.Ask(context.Background(), "the question")
	require.NoError(t, err)
	assert.Equal(t, "forty-two", answer)
}

func TestAnthropicClient_Ask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "hello"},
				{"type": "text", "text": "world"},
			},
		})
	}))
	defer srv.Close()

	c := newAnthropic(config.ProviderConfig{APIKey: "sk-ant", BaseURL: srv.URL})
	answer, err := c.Ask(context.Background(), "greet me")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", answer, "text blocks are joined")
}

func TestChatClient_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "eventually"}},
			},
		})
	}))
	defer srv.Close()

	c := newOpenAI(config.ProviderConfig{APIKey: "sk", BaseURL: srv.URL})
	answer, err := c.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "eventually", answer)
	assert.EqualValues(t, 2, calls.Load())
}

func TestChatClient_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newOpenAI(config.ProviderConfig{APIKey: "bad", BaseURL: srv.URL})
	_, err := c.Ask(context.Background(), "q")
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load(), "401 is permanent, no retry")
	assert.True(t, errors.HasCode(err, errors.CodeAIRequestFailed))
}

func TestDeepSeekDefaults(t *testing.T) {
	c := newDeepSeek(config.ProviderConfig{APIKey: "sk"})
	assert.Equal(t, "deepseek", c.Name())
	assert.Equal(t, defaultDeepSeekModel, c.model)
	assert.Contains(t, c.baseURL, "deepseek.com")
}
