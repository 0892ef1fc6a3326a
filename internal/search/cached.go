package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/cache"
	"github.com/spigell/sourcer/internal/candidate"
	"github.com/spigell/sourcer/internal/logger"
)

// Cached serves repeated queries from a ProfileCache.
// Cache backend failures are logged and treated as misses.
type Cached struct {
	next   Client
	cache  cache.ProfileCache
	logger *zap.Logger
}

func WithCache(next Client, c cache.ProfileCache, log *zap.Logger) *Cached {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{next: next, cache: c, logger: logger.WithComponent(log, "search-cache")}
}

func (c *Cached) Search(ctx context.Context, q Query) ([]candidate.Raw, error) {
	key := q.Key()

	results, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("cache read failed", zap.String("query", key), zap.Error(err))
	case ok:
		c.logger.Debug("cache hit", zap.String("query", key), zap.Int("results", len(results)))
		return results, nil
	}

	results, err = c.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	// Empty result sets are not stored so a later search can still find profiles.
	if len(results) == 0 {
		return results, nil
	}

	if err := c.cache.Put(ctx, key, results); err != nil {
		c.logger.Warn("cache write failed", zap.String("query", key), zap.Error(err))
	}

	return results, nil
}
