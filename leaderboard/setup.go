package leaderboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/padraicbc/golfpickem/config"
)

// Setup builds the configured Source: the ESPN scraper, behind a redis cache
// when REDIS_URL is set. The returned func releases the cache connection.
func Setup(cfg *config.Config, log *zap.Logger) (Source, func()) {
	espn := NewESPN(cfg.LeaderboardURL, cfg.FetchTimeout, cfg.BreakerTimeout, log.Named("espn"))
	if cfg.RedisURL == "" {
		return espn, func() {}
	}

	cache, err := NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Warn("leaderboard cache disabled", zap.Error(err))
		return espn, func() {}
	}
	if err := cache.client.Ping(context.Background()).Err(); err != nil {
		log.Warn("leaderboard cache unreachable, continuing without it", zap.Error(err))
		_ = cache.Close()
		return espn, func() {}
	}

	log.Info("leaderboard cache enabled", zap.Duration("ttl", cfg.LeaderboardCacheTTL))
	return NewCachedSource(espn, cache, cfg.LeaderboardCacheTTL, log.Named("cache")), func() { _ = cache.Close() }
}
