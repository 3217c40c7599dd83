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
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// chatClient implements the OpenAI chat completions protocol. DeepSeek
// exposes the same API, so both providers share this client.
type chatClient struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func newOpenAI(cfg config.ProviderConfig) *chatClient {
	c := &chatClient{
		name:    "openai",
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  defaultHTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = defaultOpenAIBaseURL
	}
	if c.model == "" {
		c.model = defaultOpenAIModel
	}
	return c
}

func (c *chatClient) Name() string { return c.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *chatClient) Ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
		MaxTokens: 1024,
	})
	if err != nil {
		return "", err
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/chat/completions"

	var answer string
	err = withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

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

		var parsed chatResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("decoding %s response: %w", c.name, err)
		}
		if parsed.Error != nil {
			return fmt.Errorf("%s: %s", c.name, parsed.Error.Message)
		}
		if len(parsed.Choices) == 0 {
			return fmt.Errorf("%s: empty response", c.name)
		}
		answer = strings.TrimSpace(parsed.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		if apiErr, ok := err.(*apiError); ok && apiErr.StatusCode() == http.StatusTooManyRequests {
			return "", errors.AIRateLimited(c.name, "provider returned 429")
		}
		return "", errors.Wrap(errors.CodeAIRequestFailed, c.name+" request failed", err)
	}
	return answer, nil
}
