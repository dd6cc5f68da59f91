package testsupport

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"cryptopulse/internal/adapters/config"
	"cryptopulse/internal/adapters/postgres"
)

// PostgresTx is one integration test's view of Postgres: a transaction that
// is rolled back when the test ends, so schema and rows never leak between tests
type PostgresTx struct {
	client *postgres.Client
	tx     *sqlx.Tx
	done   bool
}

// OpenPostgresTx connects with cfg and begins the test transaction
func OpenPostgresTx(t *testing.T, cfg config.PostgresConfig) *PostgresTx {
	t.Helper()
	ctx := context.Background()

	client, err := postgres.NewClient(ctx, cfg)
	require.NoError(t, err, "connect postgres")
	t.Cleanup(func() { _ = client.Close() })

	tx, err := client.DB().BeginTxx(ctx, nil)
	require.NoError(t, err, "begin transaction")

	p := &PostgresTx{client: client, tx: tx}
	// registered after Close so it runs first
	t.Cleanup(p.Rollback)
	return p
}

// NewTestPostgres opens a test transaction from POSTGRES_* variables. The test
// is skipped in -short mode or when the variables are missing.
func NewTestPostgres(t *testing.T) *PostgresTx {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	return OpenPostgresTx(t, LoadPostgresConfig(t))
}

// ApplySchema runs DDL inside the test transaction
func (p *PostgresTx) ApplySchema(t *testing.T, ddl string) {
	t.Helper()
	_, err := p.tx.ExecContext(context.Background(), ddl)
	require.NoError(t, err, "apply schema")
}

// Tx returns the active transaction
func (p *PostgresTx) Tx() *sqlx.Tx {
	return p.tx
}

// DB returns the pool outside the transaction
func (p *PostgresTx) DB() *sqlx.DB {
	return p.client.DB()
}

// Rollback discards everything the test wrote; safe to call twice
func (p *PostgresTx) Rollback() {
	if p.done {
		return
	}
	_ = p.tx.Rollback()
	p.done = true
}
