package clickhouse

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/pkg/logger"
)

type mention struct {
	Symbol   string
	Compound float64
}

// recorder collects flushed batches
type recorder[T any] struct {
	mu      sync.Mutex
	batches [][]T
}

func (r *recorder[T]) flush(ctx context.Context, batch []T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch)
	return nil
}

func (r *recorder[T]) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.batches {
		n += len(b)
	}
	return n
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func TestBatchWriter_FlushOnMaxSize(t *testing.T) {
	rec := &recorder[mention]{}
	bw := NewBatchWriter(BatchWriterConfig[mention]{
		FlushFunc:    rec.flush,
		TableName:    "scored_mentions",
		MaxBatchSize: 3,
		MaxAge:       10 * time.Second,
		Logger:       logger.NewNop(),
	})

	ctx := context.Background()
	require.NoError(t, bw.Add(ctx, mention{"BTC", 0.4}))
	require.NoError(t, bw.Add(ctx, mention{"ETH", -0.2}))
	assert.Equal(t, 0, rec.count())

	require.NoError(t, bw.Add(ctx, mention{"BTC", 0.1}))

	assert.Equal(t, 1, rec.count(), "should have flushed once")
	assert.Len(t, rec.batches[0], 3)
	assert.Equal(t, "ETH", rec.batches[0][1].Symbol)
	assert.Equal(t, 0, bw.BufferSize())
}

func TestBatchWriter_AddMany(t *testing.T) {
	rec := &recorder[mention]{}
	bw := NewBatchWriter(BatchWriterConfig[mention]{
		FlushFunc:    rec.flush,
		MaxBatchSize: 5,
		Logger:       logger.NewNop(),
	})

	ctx := context.Background()
	require.NoError(t, bw.AddMany(ctx, nil))
	require.NoError(t, bw.AddMany(ctx, []mention{{"BTC", 1}, {"ETH", 1}}))
	assert.Equal(t, 2, bw.BufferSize())

	// crossing the limit flushes everything buffered
	require.NoError(t, bw.AddMany(ctx, []mention{{"SOL", 1}, {"ADA", 1}, {"XRP", 1}, {"DOT", 1}}))
	assert.Equal(t, 6, rec.total())
	assert.Equal(t, 0, bw.BufferSize())
}

func TestBatchWriter_FlushError(t *testing.T) {
	boom := errors.New("clickhouse down")
	bw := NewBatchWriter(BatchWriterConfig[mention]{
		FlushFunc: func(ctx context.Context, batch []mention) error {
			return boom
		},
		MaxBatchSize: 1,
		Logger:       logger.NewNop(),
	})

	err := bw.Add(context.Background(), mention{"BTC", 0})
	assert.ErrorIs(t, err, boom)
}

func TestBatchWriter_FlushOnTimer(t *testing.T) {
	rec := &recorder[mention]{}
	bw := NewBatchWriter(BatchWriterConfig[mention]{
		FlushFunc:    rec.flush,
		MaxBatchSize: 100,
		MaxAge:       50 * time.Millisecond,
		Logger:       logger.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bw.Start(ctx)

	require.NoError(t, bw.Add(ctx, mention{"BTC", 0.3}))
	require.NoError(t, bw.Add(ctx, mention{"ETH", 0.3}))

	assert.Eventually(t, func() bool { return rec.total() == 2 }, 2*time.Second, 10*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, bw.Stop(stopCtx))
}

func TestBatchWriter_GracefulStop(t *testing.T) {
	rec := &recorder[mention]{}
	bw := NewBatchWriter(BatchWriterConfig[mention]{
		FlushFunc:    rec.flush,
		MaxBatchSize: 100,
		MaxAge:       10 * time.Second,
		Logger:       logger.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bw.Start(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, bw.Add(ctx, mention{"BTC", float64(i)}))
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, bw.Stop(stopCtx))

	assert.Equal(t, 3, rec.total(), "all rows flushed on stop")
	assert.False(t, bw.GetStats().Running)
}

func TestBatchWriter_StopWithoutStartFlushes(t *testing.T) {
	rec := &recorder[mention]{}
	bw := NewBatchWriter(BatchWriterConfig[mention]{
		FlushFunc: rec.flush,
		Logger:    logger.NewNop(),
	})

	require.NoError(t, bw.Add(context.Background(), mention{"BTC", 0}))
	require.NoError(t, bw.Stop(context.Background()))
	assert.Equal(t, 1, rec.total())
}

func TestBatchWriter_ConcurrentAdds(t *testing.T) {
	rec := &recorder[int]{}
	bw := NewBatchWriter(BatchWriterConfig[int]{
		FlushFunc:    rec.flush,
		MaxBatchSize: 10,
		MaxAge:       time.Second,
		Logger:       logger.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bw.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_ = bw.Add(ctx, idx)
		}(i)
	}
	wg.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, bw.Stop(stopCtx))

	assert.Equal(t, 50, rec.total())
}
