package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pep299/review-summarizer/internal/infrastructure"
)

// Backend is a named summarizer.
type Backend interface {
	Name() string
	Summarize(ctx context.Context, input string) (string, error)
}

// CachedBackend memoizes backend output by exact model input.
type CachedBackend struct {
	backend Backend
	cache   infrastructure.Cache
	logger  *slog.Logger
}

// NewCachedBackend wraps backend with cache. Cache failures are logged and
// never fail a summarization.
func NewCachedBackend(backend Backend, cache infrastructure.Cache, logger *slog.Logger) *CachedBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedBackend{backend: backend, cache: cache, logger: logger}
}

func (c *CachedBackend) Name() string {
	return c.backend.Name()
}

func (c *CachedBackend) Summarize(ctx context.Context, input string) (string, error) {
	key := infrastructure.GenerateKey(c.backend.Name(), input)

	entry, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		c.logger.Info("Summary cache hit", "key", key, "backend", entry.Backend, "access_count", entry.AccessCount)
		return entry.Summary, nil
	case !errors.Is(err, infrastructure.ErrCacheMiss):
		c.logger.Warn("Summary cache lookup failed", "key", key, "error", err)
	}

	summary, err := c.backend.Summarize(ctx, input)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, &infrastructure.CacheEntry{Backend: c.backend.Name(), Summary: summary}); err != nil {
		c.logger.Warn("Failed to store summary in cache", "key", key, "error", err)
	}
	return summary, nil
}
