package ai

import (
	"context"
	"log/slog"

	"github.com/nexus-stack/nexus/internal/cache"
	"github.com/nexus-stack/nexus/internal/errors"
	"github.com/nexus-stack/nexus/internal/ratelimit"
	"github.com/nexus-stack/nexus/internal/storage"
)

// Service composes a provider client with the response cache, the local
// rate limiter, and history recording.
type Service struct {
	client  Client
	cache   *cache.Cache
	limiter *ratelimit.Limiter
	store   *storage.Store
	logger  *slog.Logger
}

// Answer is one response plus where it came from.
type Answer struct {
	Text     string
	Provider string
	Cached   bool
}

// NewService wires up a service. cache, limiter, and store may each be nil
// to disable that concern.
func NewService(client Client, c *cache.Cache, limiter *ratelimit.Limiter, store *storage.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, cache: c, limiter: limiter, store: store, logger: logger}
}

// Ask answers the question, consulting the cache first and the rate limiter
// before any network call. Successful fresh answers are cached and recorded
// in history.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	provider := s.client.Name()

	if s.cache != nil {
		if text, ok := s.cache.Get(provider, question); ok {
			s.logger.Debug("cache hit", "provider", provider)
			return &Answer{Text: text, Provider: provider, Cached: true}, nil
		}
	}

	if s.limiter != nil {
		if ok, hint := s.limiter.Allow(provider); !ok {
			return nil, errors.AIRateLimited(provider, hint)
		}
	}

	s.logger.Debug("querying provider", "provider", provider)
	text, err := s.client.Ask(ctx, question)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(provider, question, text); err != nil {
			s.logger.Warn("failed to cache response", "error", err)
		}
	}
	if s.store != nil {
		if _, err := s.store.SaveHistory(question, text, provider); err != nil {
			s.logger.Warn("failed to record history", "error", err)
		}
	}
	return &Answer{Text: text, Provider: provider}, nil
}
