package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

type cacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService is a read-through cache over Redis. Keys are namespaced by tag
// so every mutation path can drop a whole family of entries at once. Cache
// failures are logged and treated as misses; the loader always wins.
type CacheService struct {
	repo    cacheRepository
	ttl     time.Duration
	enabled bool
	logger  *zap.Logger
}

// NewCacheService constructs the cache service.
func NewCacheService(repo cacheRepository, ttl time.Duration, enabled bool, logger *zap.Logger) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, ttl: ttl, enabled: enabled, logger: logger}
}

// GetOrLoad fills dest from cache when possible, otherwise runs the loader
// and stores its result under tag:key.
func (s *CacheService) GetOrLoad(ctx context.Context, tag, key string, dest interface{}, load func() (interface{}, error)) error {
	fullKey := tag + ":" + key
	if s.enabled {
		if err := s.repo.Get(ctx, fullKey, dest); err == nil {
			return nil
		}
	}

	value, err := load()
	if err != nil {
		return err
	}
	if err := assign(dest, value); err != nil {
		return err
	}

	if s.enabled {
		if err := s.repo.Set(ctx, fullKey, value, s.ttl); err != nil {
			s.logger.Sugar().Warnw("cache store failed", "key", fullKey, "error", err)
		}
	}
	return nil
}

// assign copies the loader result into the caller's destination through a
// JSON round trip, the same shape a cache hit takes.
func assign(dest, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Invalidate drops every entry under the given tags.
func (s *CacheService) Invalidate(ctx context.Context, tags ...string) {
	if !s.enabled {
		return
	}
	for _, tag := range tags {
		if err := s.repo.DeleteByPattern(ctx, tag+":*"); err != nil {
			s.logger.Sugar().Warnw("cache invalidation failed", "tag", tag, "error", err)
		}
	}
}
