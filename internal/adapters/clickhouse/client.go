package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"cryptopulse/internal/adapters/config"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

// Client wraps the ClickHouse connection used for sentiment history
type Client struct {
	conn driver.Conn
	log  *logger.Logger
}

// NewClient creates a new ClickHouse client
func NewClient(ctx context.Context, cfg config.ClickHouseConfig) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to clickhouse")
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to ping clickhouse")
	}

	return &Client{
		conn: conn,
		log:  logger.Get().With("component", "clickhouse", "database", cfg.Database),
	}, nil
}

// Conn returns the underlying ClickHouse connection
func (c *Client) Conn() driver.Conn {
	return c.conn
}

// EnsureTables runs each CREATE TABLE IF NOT EXISTS statement.
// The native protocol accepts one statement per Exec.
func (c *Client) EnsureTables(ctx context.Context, statements ...string) error {
	for _, stmt := range statements {
		if err := c.conn.Exec(ctx, stmt); err != nil {
			return errors.Wrap(err, "create clickhouse table")
		}
	}
	c.log.Infof("ClickHouse tables ready (%d)", len(statements))
	return nil
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Health checks ClickHouse connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.conn.Ping(ctx)
}
