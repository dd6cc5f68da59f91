package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "cryptopulse/internal/adapters/redis"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/testsupport"
	"cryptopulse/pkg/errors"
)

type stubAssets struct {
	assets []sentiment.Asset
	calls  int
}

func (s *stubAssets) UpsertAssets(ctx context.Context, assets []sentiment.Asset) error {
	s.assets = assets
	return nil
}

func (s *stubAssets) InsertMarketData(ctx context.Context, rows []sentiment.MarketData) error {
	return nil
}

func (s *stubAssets) GetTopRanked(ctx context.Context, limit int) ([]sentiment.Asset, error) {
	s.calls++
	if limit < len(s.assets) {
		return s.assets[:limit], nil
	}
	return s.assets, nil
}

func newTestClient(t *testing.T) *adapter.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	return adapter.Wrap(testsupport.NewTestRedis(t))
}

func TestTopRankedKey(t *testing.T) {
	assert.Equal(t, "cryptopulse:assets:top:50", topRankedKey(50))
}

func TestCachedAssetRepository_CachesPerLimit(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	store := &stubAssets{assets: []sentiment.Asset{
		{Symbol: "BTC", Name: "Bitcoin", Ranking: 1},
		{Symbol: "ETH", Name: "Ethereum", Ranking: 2},
	}}
	repo := NewCachedAssetRepository(store, client, time.Minute)

	first, err := repo.GetTopRanked(ctx, 2)
	require.NoError(t, err)
	second, err := repo.GetTopRanked(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.calls, "second read is served from cache")

	_, err = repo.GetTopRanked(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls, "different bound has its own entry")
}

func TestCachedAssetRepository_WritesInvalidate(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	store := &stubAssets{assets: []sentiment.Asset{{Symbol: "BTC", Name: "Bitcoin", Ranking: 1}}}
	repo := NewCachedAssetRepository(store, client, time.Minute)

	_, err := repo.GetTopRanked(ctx, 10)
	require.NoError(t, err)

	require.NoError(t, repo.UpsertAssets(ctx, []sentiment.Asset{{Symbol: "SOL", Name: "Solana", Ranking: 5}}))

	got, err := repo.GetTopRanked(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SOL", got[0].Symbol)
	assert.Equal(t, 2, store.calls)
}

func TestRunLock_Exclusive(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	lock := NewRunLock(client, time.Minute)

	release, err := lock.Acquire(ctx, "aggregation")
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, "aggregation")
	assert.ErrorIs(t, err, errors.ErrLockNotAcquired)

	release()

	release2, err := lock.Acquire(ctx, "aggregation")
	require.NoError(t, err)
	release2()
}

func TestRunLock_ReleaseDoesNotStealTakenOverLock(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	lock := NewRunLock(client, 50*time.Millisecond)
	release, err := lock.Acquire(ctx, "aggregation")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	other := NewRunLock(client, time.Minute)
	releaseOther, err := other.Acquire(ctx, "aggregation")
	require.NoError(t, err)

	// the expired holder must not drop the new holder's lock
	release()
	_, err = other.Acquire(ctx, "aggregation")
	assert.ErrorIs(t, err, errors.ErrLockNotAcquired)

	releaseOther()
}
