package testsupport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickHouseCleanupDropsTable(t *testing.T) {
	helper := NewTestClickHouse(t)
	ctx := context.Background()
	table := helper.CreateTempTable(t, "id UInt64, value String")

	require.NoError(t, helper.Client().Conn().Exec(ctx, "INSERT INTO "+table+" (id, value) VALUES (1, 'abc')"))

	count, err := helper.Count(ctx, table, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, helper.CleanupTable(ctx, table))

	var exists uint8
	require.NoError(t, helper.Client().Conn().QueryRow(ctx, "EXISTS TABLE "+table).Scan(&exists))
	assert.Equal(t, uint8(0), exists, "table should be dropped")
}
