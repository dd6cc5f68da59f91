package postgres

import (
	"context"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"cryptopulse/internal/domain/sentiment"
)

// Compile-time check
var _ sentiment.AssetRepository = (*AssetRepository)(nil)

// AssetRepository implements sentiment.AssetRepository
type AssetRepository struct {
	db DBTX
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db DBTX) *AssetRepository {
	return &AssetRepository{db: db}
}

// UpsertAssets inserts assets or refreshes name, ranking and coingecko id
func (r *AssetRepository) UpsertAssets(ctx context.Context, assets []sentiment.Asset) error {
	assets = lastByKey(assets, func(a sentiment.Asset) string { return a.Symbol })
	for batch := range slices.Chunk(assets, batchSize) {
		b := psql.Insert("crypto_asset").
			Columns("symbol", "name", "ranking", "coingecko_id", "updated_at")
		for _, a := range batch {
			b = b.Values(a.Symbol, a.Name, a.Ranking, nullString(a.CoingeckoID), sq.Expr("NOW()"))
		}
		b = b.Suffix(`ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			ranking = EXCLUDED.ranking,
			coingecko_id = COALESCE(EXCLUDED.coingecko_id, crypto_asset.coingecko_id),
			updated_at = EXCLUDED.updated_at`)

		if _, err := exec(ctx, r.db, "upsert_assets", b); err != nil {
			return err
		}
	}
	return nil
}

// InsertMarketData stores market observations, ignoring ones already seen
func (r *AssetRepository) InsertMarketData(ctx context.Context, rows []sentiment.MarketData) error {
	for batch := range slices.Chunk(rows, batchSize) {
		b := psql.Insert("crypto_market_data").
			Columns("symbol", "timestamp", "price_usd", "market_cap", "volume_24h")
		for _, m := range batch {
			b = b.Values(m.Symbol, m.Timestamp.UTC(), m.PriceUSD, m.MarketCap, m.Volume24h)
		}
		b = b.Suffix("ON CONFLICT (symbol, timestamp) DO NOTHING")

		if _, err := exec(ctx, r.db, "insert_market_data", b); err != nil {
			return err
		}
	}
	return nil
}

// GetTopRanked returns up to limit assets that have market data, best ranking first
func (r *AssetRepository) GetTopRanked(ctx context.Context, limit int) ([]sentiment.Asset, error) {
	var assets []sentiment.Asset
	q := topRankedQuery(limit).PlaceholderFormat(sq.Dollar)
	if err := selectInto(ctx, r.db, "get_top_ranked", &assets, q); err != nil {
		return nil, err
	}
	return assets, nil
}

// topRankedQuery selects the tracked universe. It uses ? placeholders so it
// can be nested into other builders.
func topRankedQuery(limit int) sq.SelectBuilder {
	q := sq.Select("a.symbol", "a.name", "a.ranking", "COALESCE(a.coingecko_id, '') AS coingecko_id").
		From("crypto_asset a").
		Where("EXISTS (SELECT 1 FROM crypto_market_data m WHERE m.symbol = a.symbol)").
		OrderBy("a.ranking ASC", "a.symbol ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
