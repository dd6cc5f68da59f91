package testsupport

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"cryptopulse/internal/adapters/clickhouse"
	"cryptopulse/internal/adapters/config"
)

// ClickHouseTestHelper manages cleanup for ClickHouse integration tests.
type ClickHouseTestHelper struct {
	client *clickhouse.Client
}

// NewClickHouseTestHelper creates a ClickHouse client for tests.
func NewClickHouseTestHelper(t *testing.T, cfg config.ClickHouseConfig) *ClickHouseTestHelper {
	t.Helper()

	client, err := clickhouse.NewClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to connect to clickhouse: %v", err)
	}

	helper := &ClickHouseTestHelper{client: client}
	t.Cleanup(func() { _ = client.Close() })
	return helper
}

// NewTestClickHouse creates a helper from CLICKHOUSE_* variables, skipping
// the test when they are missing
func NewTestClickHouse(t *testing.T) *ClickHouseTestHelper {
	t.Helper()

	return NewClickHouseTestHelper(t, LoadClickHouseConfig(t))
}

// Client returns the wrapped client
func (h *ClickHouseTestHelper) Client() *clickhouse.Client {
	return h.client
}

// CreateTempTable renders ddl with a unique table name in place of %s,
// creates it and drops it when the test ends. Returns the table name.
func (h *ClickHouseTestHelper) CreateTempTable(t *testing.T, ddl string) string {
	t.Helper()

	table := fmt.Sprintf("tmp_test_%d", time.Now().UnixNano())
	if !strings.Contains(ddl, "%s") {
		ddl = "CREATE TABLE IF NOT EXISTS %s (" + ddl + ") ENGINE = MergeTree() ORDER BY tuple()"
	}

	if err := h.client.EnsureTables(context.Background(), fmt.Sprintf(ddl, table)); err != nil {
		t.Fatalf("failed to create clickhouse table: %v", err)
	}

	t.Cleanup(func() {
		_ = h.CleanupTable(context.Background(), table)
	})

	return table
}

// CleanupTable drops the provided table immediately.
func (h *ClickHouseTestHelper) CleanupTable(ctx context.Context, table string) error {
	return h.client.Conn().Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
}

// Count returns the number of rows in table matching where (may be empty)
func (h *ClickHouseTestHelper) Count(ctx context.Context, table, where string, args ...interface{}) (uint64, error) {
	query := "SELECT count() FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var count uint64
	err := h.client.Conn().QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}
