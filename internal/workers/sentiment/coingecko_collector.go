package sentiment

import (
	"context"
	"time"

	"cryptopulse/internal/adapters/coingecko"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/workers"
	"cryptopulse/pkg/errors"
)

// MarketAPI is the subset of the Coingecko client the collector uses
type MarketAPI interface {
	Markets(ctx context.Context, perPage int) ([]coingecko.MarketCoin, error)
	SentimentVotes(ctx context.Context, coingeckoID, symbol string, at time.Time) (sentiment.Baseline, error)
}

// MarketStore persists assets, market observations and baselines
type MarketStore interface {
	UpsertAssets(ctx context.Context, assets []sentiment.Asset) error
	InsertMarketData(ctx context.Context, rows []sentiment.MarketData) error
	InsertBaselines(ctx context.Context, baselines []sentiment.Baseline) error
}

// CoingeckoCollector refreshes the ranked asset universe and the community
// vote baselines used by the aggregation
type CoingeckoCollector struct {
	*workers.BaseWorker
	api      MarketAPI
	store    MarketStore
	notifier IngestionNotifier
	topN     int
	now      func() time.Time
}

// NewCoingeckoCollector creates a new Coingecko collector worker
func NewCoingeckoCollector(
	api MarketAPI,
	store MarketStore,
	notifier IngestionNotifier,
	topN int,
	interval time.Duration,
	enabled bool,
) *CoingeckoCollector {
	if topN <= 0 {
		topN = 150
	}

	return &CoingeckoCollector{
		BaseWorker: workers.NewBaseWorker(CoingeckoWorkerName, interval, enabled),
		api:        api,
		store:      store,
		notifier:   notifier,
		topN:       topN,
		now:        time.Now,
	}
}

// Run executes one iteration of ranking and baseline collection
func (cc *CoingeckoCollector) Run(ctx context.Context) error {
	summary := &runSummary{worker: cc.Name(), source: "coingecko", start: time.Now()}
	now := cc.now().UTC()

	coins, err := cc.api.Markets(ctx, cc.topN)
	if err != nil {
		return errors.Wrap(err, "fetch markets")
	}

	assets, market := coingecko.RankAssets(coins, now)
	if len(assets) == 0 {
		return errors.Wrap(errors.ErrNoAssets, "coingecko returned no rankable coins")
	}
	summary.assets = len(assets)

	if err := cc.store.UpsertAssets(ctx, assets); err != nil {
		return errors.Wrap(err, "store assets")
	}
	if err := cc.store.InsertMarketData(ctx, market); err != nil {
		return errors.Wrap(err, "store market data")
	}

	baselines := make([]sentiment.Baseline, 0, len(assets))
	for _, asset := range assets {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if asset.CoingeckoID == "" {
			continue
		}

		b, err := cc.api.SentimentVotes(ctx, asset.CoingeckoID, asset.Symbol, now)
		if err != nil {
			summary.failures++
			cc.Log().Warnw("Failed to fetch sentiment votes", "symbol", asset.Symbol, "error", err)
			continue
		}
		baselines = append(baselines, b)
	}

	if err := cc.store.InsertBaselines(ctx, baselines); err != nil {
		return errors.Wrap(err, "store baselines")
	}
	summary.records = int64(len(assets) + len(baselines))

	summary.finish(ctx, cc.notifier, cc.Log())
	return nil
}
