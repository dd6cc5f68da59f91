package metrics

import (
	"context"
	"time"

	"cryptopulse/pkg/logger"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

// storedTables are the Postgres tables reported by the stored_rows gauge
var storedTables = []string{
	"crypto_asset",
	"crypto_reddit_data",
	"crypto_news_data",
	"youtube_comment",
	"crypto_sentiment_aggregate_data",
}

// StoreCollector reports data volume straight from the stores on each scrape
type StoreCollector struct {
	log        *logger.Logger
	postgres   *sqlx.DB
	clickhouse driver.Conn

	storedRows      *prometheus.Desc
	mentions24h     *prometheus.Desc
	latestAggregate *prometheus.Desc
}

// NewStoreCollector creates a new store collector. clickhouse may be nil.
func NewStoreCollector(log *logger.Logger, postgres *sqlx.DB, clickhouse driver.Conn) *StoreCollector {
	return &StoreCollector{
		log:        log,
		postgres:   postgres,
		clickhouse: clickhouse,

		storedRows: prometheus.NewDesc(
			"cryptopulse_stored_rows",
			"Rows stored per table",
			[]string{"table"}, nil,
		),
		mentions24h: prometheus.NewDesc(
			"cryptopulse_scored_mentions_24h",
			"Scored mentions recorded in the last 24h by source",
			[]string{"source"}, nil,
		),
		latestAggregate: prometheus.NewDesc(
			"cryptopulse_latest_aggregate_timestamp",
			"Unix timestamp of the newest normalized record",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.storedRows
	ch <- c.mentions24h
	ch <- c.latestAggregate
}

// Collect implements prometheus.Collector
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectStoredRows(ctx, ch)
	c.collectLatestAggregate(ctx, ch)
	c.collectMentions(ctx, ch)
}

func (c *StoreCollector) collectStoredRows(ctx context.Context, ch chan<- prometheus.Metric) {
	for _, table := range storedTables {
		var count int64
		// table names come from the fixed list above
		if err := c.postgres.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table); err != nil {
			c.log.Debugw("Failed to count rows", "table", table, "error", err)
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.storedRows, prometheus.GaugeValue, float64(count), table)
	}
}

func (c *StoreCollector) collectLatestAggregate(ctx context.Context, ch chan<- prometheus.Metric) {
	var latest *time.Time
	err := c.postgres.GetContext(ctx, &latest, "SELECT MAX(timestamp) FROM crypto_sentiment_aggregate_data")
	if err != nil || latest == nil {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.latestAggregate, prometheus.GaugeValue, float64(latest.Unix()))
}

func (c *StoreCollector) collectMentions(ctx context.Context, ch chan<- prometheus.Metric) {
	if c.clickhouse == nil {
		return
	}

	rows, err := c.clickhouse.Query(ctx, `
		SELECT source, count() AS n
		FROM scored_mentions
		WHERE scored_at >= now() - INTERVAL 1 DAY
		GROUP BY source
	`)
	if err != nil {
		c.log.Debugw("Failed to count scored mentions", "error", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			source string
			n      uint64
		)
		if err := rows.Scan(&source, &n); err != nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.mentions24h, prometheus.GaugeValue, float64(n), source)
	}
}

// RegisterStoreCollector registers the store collector
func RegisterStoreCollector(collector *StoreCollector) {
	prometheus.MustRegister(collector)
}
