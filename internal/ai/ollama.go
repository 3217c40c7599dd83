package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nexus-stack/nexus/internal/config"
	"github.com/nexus-stack/nexus/internal/errors"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.2"
)

// ollamaClient talks to a local Ollama instance over its native generate
// API. No API key is required.
type ollamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

func newOllama(cfg config.ProviderConfig) *ollamaClient {
	c := &ollamaClient{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  defaultHTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = defaultOllamaBaseURL
	}
	if c.model == "" {
		c.model = defaultOllamaModel
	}
	return c
}

func (c *ollamaClient) Name() string { return "ollama" }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *ollamaClient) Ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  c.model,
		Prompt: question,
		System: systemPrompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/api/generate"

	var answer string
	err = withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return &apiError{status: resp.StatusCode, body: string(data)}
		}

		var parsed ollamaResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("decoding ollama response: %w", err)
		}
		if parsed.Error != "" {
			return fmt.Errorf("ollama: %s", parsed.Error)
		}
		answer = strings.TrimSpace(parsed.Response)
		return nil
	})
	if err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.StatusCode() == http.StatusTooManyRequests {
			return "", errors.AIRateLimited(c.Name(), "provider returned 429")
		}
		return "", errors.Wrap(errors.CodeAIRequestFailed, "ollama request failed", err)
	}
	return answer, nil
}
