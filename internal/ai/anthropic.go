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
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	defaultAnthropicModel   = "claude-3-5-haiku-20241022"
	anthropicVersion        = "2023-06-01"
)

type anthropicClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func newAnthropic(cfg config.ProviderConfig) *anthropicClient {
	c := &anthropicClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  defaultHTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = defaultAnthropicBaseURL
	}
	if c.model == "" {
		c.model = defaultAnthropicModel
	}
	return c
}

func (c *anthropicClient) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *anthropicClient) Ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages: []chatMessage{
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/messages"

	var answer string
	err = withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", anthropicVersion)

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

		var parsed anthropicResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("decoding anthropic response: %w", err)
		}
		if parsed.Error != nil {
			return fmt.Errorf("anthropic: %s", parsed.Error.Message)
		}

		var parts []string
		for _, block := range parsed.Content {
			if block.Type == "text" {
				parts = append(parts, block.Text)
			}
		}
		if len(parts) == 0 {
			return fmt.Errorf("anthropic: empty response")
		}
		answer = strings.TrimSpace(strings.Join(parts, "\n"))
		return nil
	})
	if err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.StatusCode() == http.StatusTooManyRequests {
			return "", errors.AIRateLimited(c.Name(), "provider returned 429")
		}
		return "", errors.Wrap(errors.CodeAIRequestFailed, "anthropic request failed", err)
	}
	return answer, nil
}
