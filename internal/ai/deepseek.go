package ai

import "github.com/nexus-stack/nexus/internal/config"

const (
	defaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	defaultDeepSeekModel   = "deepseek-chat"
)

// DeepSeek speaks the OpenAI chat completions protocol at its own endpoint.
func newDeepSeek(cfg config.ProviderConfig) *chatClient {
	c := &chatClient{
		name:    "deepseek",
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  defaultHTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = defaultDeepSeekBaseURL
	}
	if c.model == "" {
		c.model = defaultDeepSeekModel
	}
	return c
}
