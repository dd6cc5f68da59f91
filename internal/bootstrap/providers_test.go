package bootstrap

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/internal/adapters/config"
	redisclient "cryptopulse/internal/adapters/redis"
	"cryptopulse/internal/domain/sentiment"
)

type emptyAssets struct{}

func (emptyAssets) UpsertAssets(ctx context.Context, assets []sentiment.Asset) error { return nil }

func (emptyAssets) InsertMarketData(ctx context.Context, rows []sentiment.MarketData) error {
	return nil
}

func (emptyAssets) GetTopRanked(ctx context.Context, limit int) ([]sentiment.Asset, error) {
	return nil, nil
}

func TestProvideRedisRepositories(t *testing.T) {
	// the client connects lazily, nothing is dialed here
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = rdb.Close() })

	cache, lock := provideRedisRepositories(emptyAssets{}, redisclient.Wrap(rdb), config.RedisConfig{
		AssetCacheTTL: time.Minute,
		LockTTL:       time.Minute,
	})
	require.NotNil(t, cache)
	require.NotNil(t, lock)

	var repos Repositories
	repos.Assets, repos.RunLock = cache, lock
	assert.NotNil(t, repos.Assets)
}

func TestWorkerStaleAfter(t *testing.T) {
	cfg := config.WorkerConfig{
		RedditInterval:      time.Hour,
		YouTubeInterval:     6 * time.Hour,
		NewsInterval:        30 * time.Minute,
		CoingeckoInterval:   time.Hour,
		AggregationInterval: time.Hour,
	}
	assert.Equal(t, 12*time.Hour, workerStaleAfter(cfg))
}

func TestClickhouseConn_Disabled(t *testing.T) {
	assert.Nil(t, clickhouseConn(nil))
}
