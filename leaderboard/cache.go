package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by a Cache when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores serialized leaderboard rows.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is a Cache backed by redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the redis instance at url (redis://host:port/db).
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedSource serves recent pages from a Cache before asking the wrapped
// Source. Empty results are never cached, so a failed fetch is retried on
// the next call.
type CachedSource struct {
	next  Source
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedSource wraps next with cache. Cache errors only cost a refetch.
func NewCachedSource(next Source, cache Cache, ttl time.Duration, log *zap.Logger) *CachedSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedSource{next: next, cache: cache, ttl: ttl, log: log}
}

func cacheKey(externalID string, mode Mode) string {
	return fmt.Sprintf("leaderboard:%s:%s", externalID, mode)
}

func (s *CachedSource) Fetch(ctx context.Context, externalID string, mode Mode) []Row {
	key := cacheKey(externalID, mode)

	b, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var rows []Row
		if err := json.Unmarshal(b, &rows); err == nil {
			return rows
		}
		s.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, ErrCacheMiss):
		s.log.Warn("leaderboard cache read failed", zap.String("key", key), zap.Error(err))
	}

	rows := s.next.Fetch(ctx, externalID, mode)
	if len(rows) == 0 {
		return rows
	}

	if b, err := json.Marshal(rows); err == nil {
		if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
			s.log.Warn("leaderboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return rows
}
