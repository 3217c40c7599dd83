// Package ai provides a uniform client over the supported language model
// providers: ollama, openai, anthropic, and deepseek.
package ai

import (
	"context"
	"net/http"
	"time"

	"github.com/nexus-stack/nexus/internal/config"
	"github.com/nexus-stack/nexus/internal/errors"
)

// Client answers a single question with one provider.
type Client interface {
	// Ask sends the question and returns the model's text response.
	Ask(ctx context.Context, question string) (string, error)
	// Name identifies the provider for logging and history records.
	Name() string
}

// systemPrompt frames every question so answers stay terse and
// terminal-oriented.
const systemPrompt = "You are a concise technical assistant for command-line users. " +
	"Answer briefly and precisely. When a shell command answers the question, " +
	"lead with the command."

var defaultHTTPClient = &http.Client{Timeout: 120 * time.Second}

// NewClient builds a client for the named provider from its configuration.
func NewClient(provider string, cfg config.ProviderConfig) (Client, error) {
	switch provider {
	case "ollama":
		return newOllama(cfg), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, errors.AIMissingKey(provider, "OPENAI_API_KEY")
		}
		return newOpenAI(cfg), nil
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, errors.AIMissingKey(provider, "ANTHROPIC_API_KEY")
		}
		return newAnthropic(cfg), nil
	case "deepseek":
		if cfg.APIKey == "" {
			return nil, errors.AIMissingKey(provider, "DEEPSEEK_API_KEY")
		}
		return newDeepSeek(cfg), nil
	default:
		return nil, errors.AIUnknownProvider(provider)
	}
}

// Providers lists the valid provider names.
func Providers() []string {
	return []string{"ollama", "openai", "anthropic", "deepseek"}
}
