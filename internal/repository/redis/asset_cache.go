package redis

import (
	"context"
	"fmt"
	"time"

	"cryptopulse/internal/adapters/redis"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

const topRankedKeyPrefix = "cryptopulse:assets:top:"

// Compile-time check
var _ sentiment.AssetRepository = (*CachedAssetRepository)(nil)

// CachedAssetRepository caches the ranked asset list per ranking bound.
// Writes go to the wrapped repository and invalidate every cached list.
type CachedAssetRepository struct {
	next   sentiment.AssetRepository
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCachedAssetRepository wraps next with a Redis cache
func NewCachedAssetRepository(next sentiment.AssetRepository, client *redis.Client, ttl time.Duration) *CachedAssetRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedAssetRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    logger.Get().With("component", "asset_cache"),
	}
}

// GetTopRanked serves from cache when possible. Cache failures fall through to the store.
func (r *CachedAssetRepository) GetTopRanked(ctx context.Context, limit int) ([]sentiment.Asset, error) {
	key := topRankedKey(limit)

	var cached []sentiment.Asset
	err := r.client.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		r.log.Warnw("Asset cache read failed", "key", key, "error", err)
	}

	assets, err := r.next.GetTopRanked(ctx, limit)
	if err != nil {
		return nil, err
	}

	// an empty universe is not cached so the first ingestion shows up immediately
	if len(assets) > 0 {
		if err := r.client.Set(ctx, key, assets, r.ttl); err != nil {
			r.log.Warnw("Asset cache write failed", "key", key, "error", err)
		}
	}
	return assets, nil
}

// UpsertAssets writes through and invalidates
func (r *CachedAssetRepository) UpsertAssets(ctx context.Context, assets []sentiment.Asset) error {
	if err := r.next.UpsertAssets(ctx, assets); err != nil {
		return err
	}
	return r.Invalidate(ctx)
}

// InsertMarketData writes through and invalidates, since market data decides
// which assets are tracked
func (r *CachedAssetRepository) InsertMarketData(ctx context.Context, rows []sentiment.MarketData) error {
	if err := r.next.InsertMarketData(ctx, rows); err != nil {
		return err
	}
	return r.Invalidate(ctx)
}

// Invalidate drops every cached ranked list
func (r *CachedAssetRepository) Invalidate(ctx context.Context) error {
	var keys []string
	iter := r.client.Client().Scan(ctx, 0, topRankedKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "scan asset cache keys")
	}
	if len(keys) == 0 {
		return nil
	}
	return errors.Wrap(r.client.Delete(ctx, keys...), "invalidate asset cache")
}

func topRankedKey(limit int) string {
	return fmt.Sprintf("%s%d", topRankedKeyPrefix, limit)
}
