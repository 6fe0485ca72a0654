package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/padraicbc/golfpickem/config"
)

func TestSetupWithoutRedisUsesScraper(t *testing.T) {
	cfg := &config.Config{LeaderboardURL: "http://example.invalid", FetchTimeout: time.Second, BreakerTimeout: time.Second}
	src, closeFn := Setup(cfg, zaptest.NewLogger(t))
	defer closeFn()

	_, ok := src.(*ESPN)
	assert.True(t, ok)
}

func TestSetupFallsBackWhenRedisUnusable(t *testing.T) {
	for _, url := range []string{"not a url", "redis://127.0.0.1:1/0"} {
		cfg := &config.Config{
			LeaderboardURL: "http://example.invalid",
			FetchTimeout:   time.Second,
			BreakerTimeout: time.Second,
			RedisURL:       url,
		}
		src, closeFn := Setup(cfg, zaptest.NewLogger(t))
		_, ok := src.(*ESPN)
		assert.True(t, ok, url)
		closeFn()
	}
}
