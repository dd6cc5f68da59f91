package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "cryptopulse/pkg/errors"
)

// Mock worker for testing
type mockWorker struct {
	*BaseWorker
	runCount int32
	runFunc  func(ctx context.Context) error
}

func newMockWorker(name string, interval time.Duration, enabled bool) *mockWorker {
	return &mockWorker{
		BaseWorker: NewBaseWorker(name, interval, enabled),
		runFunc:    func(ctx context.Context) error { return nil },
	}
}

func (m *mockWorker) Run(ctx context.Context) error {
	atomic.AddInt32(&m.runCount, 1)
	if m.runFunc != nil {
		return m.runFunc(ctx)
	}
	return nil
}

func (m *mockWorker) GetRunCount() int {
	return int(atomic.LoadInt32(&m.runCount))
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler(nil)

	worker1 := newMockWorker("test-worker-1", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker1)

	ctx := context.Background()
	err := scheduler.Start(ctx)
	require.NoError(t, err)
	assert.True(t, scheduler.IsRunning())

	// Let it run for a bit
	time.Sleep(250 * time.Millisecond)

	err = scheduler.Stop()
	require.NoError(t, err)
	assert.False(t, scheduler.IsRunning())

	// Worker should have run at least 2 times (immediate + 2 ticks)
	runCount := worker1.GetRunCount()
	assert.GreaterOrEqual(t, runCount, 2, "Worker should have run at least 2 times")
}

func TestScheduler_GracefulShutdown(t *testing.T) {
	scheduler := NewScheduler(nil)

	// Worker that takes some time to complete
	worker := newMockWorker("slow-worker", 100*time.Millisecond, true)
	worker.runFunc = func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}

	scheduler.RegisterWorker(worker)

	ctx := context.Background()
	err := scheduler.Start(ctx)
	require.NoError(t, err)

	// Let it run once
	time.Sleep(150 * time.Millisecond)

	// Should stop gracefully
	err = scheduler.Stop()
	require.NoError(t, err)
}

func TestScheduler_ContextCancellation(t *testing.T) {
	scheduler := NewScheduler(nil)

	worker := newMockWorker("test-worker", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	ctx, cancel := context.WithCancel(context.Background())

	err := scheduler.Start(ctx)
	require.NoError(t, err)

	// Cancel context
	cancel()

	// Wait a bit for workers to stop
	time.Sleep(200 * time.Millisecond)

	// Stop should work even after context cancellation
	err = scheduler.Stop()
	require.NoError(t, err)
}

func TestScheduler_DisabledWorker(t *testing.T) {
	scheduler := NewScheduler(nil)

	enabledWorker := newMockWorker("enabled-worker", 100*time.Millisecond, true)
	disabledWorker := newMockWorker("disabled-worker", 100*time.Millisecond, false)

	scheduler.RegisterWorker(enabledWorker)
	scheduler.RegisterWorker(disabledWorker)

	ctx := context.Background()
	err := scheduler.Start(ctx)
	require.NoError(t, err)

	// Let them run
	time.Sleep(250 * time.Millisecond)

	err = scheduler.Stop()
	require.NoError(t, err)

	// Enabled worker should have run
	assert.Greater(t, enabledWorker.GetRunCount(), 0)

	// Disabled worker should not have run
	assert.Equal(t, 0, disabledWorker.GetRunCount())
}

func TestScheduler_MultipleWorkers(t *testing.T) {
	scheduler := NewScheduler(nil)

	worker1 := newMockWorker("worker-1", 100*time.Millisecond, true)
	worker2 := newMockWorker("worker-2", 100*time.Millisecond, true)
	worker3 := newMockWorker("worker-3", 100*time.Millisecond, true)

	scheduler.RegisterWorker(worker1)
	scheduler.RegisterWorker(worker2)
	scheduler.RegisterWorker(worker3)

	ctx := context.Background()
	err := scheduler.Start(ctx)
	require.NoError(t, err)

	time.Sleep(250 * time.Millisecond)

	err = scheduler.Stop()
	require.NoError(t, err)

	// All workers should have run
	assert.Greater(t, worker1.GetRunCount(), 0)
	assert.Greater(t, worker2.GetRunCount(), 0)
	assert.Greater(t, worker3.GetRunCount(), 0)
}

func TestScheduler_CannotStartTwice(t *testing.T) {
	scheduler := NewScheduler(nil)

	worker := newMockWorker("test-worker", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	ctx := context.Background()

	err := scheduler.Start(ctx)
	require.NoError(t, err)

	// Try to start again
	err = scheduler.Start(ctx)
	assert.Error(t, err)

	require.NoError(t, scheduler.Stop())
}

func TestScheduler_GetWorkers(t *testing.T) {
	scheduler := NewScheduler(nil)

	worker1 := newMockWorker("worker-1", 100*time.Millisecond, true)
	worker2 := newMockWorker("worker-2", 200*time.Millisecond, false)

	scheduler.RegisterWorker(worker1)
	scheduler.RegisterWorker(worker2)

	workers := scheduler.GetWorkers()
	assert.Len(t, workers, 2)
	assert.Equal(t, "worker-1", workers[0].Name())
	assert.Equal(t, "worker-2", workers[1].Name())
}

func TestScheduler_TracksHealthInRegistry(t *testing.T) {
	registry := NewRegistry()
	scheduler := NewScheduler(registry)

	ok := newMockWorker("ok-worker", time.Hour, true)
	failing := newMockWorker("failing-worker", time.Hour, true)
	failing.runFunc = func(ctx context.Context) error {
		return errors.New("upstream down")
	}
	panicking := newMockWorker("panicking-worker", time.Hour, true)
	panicking.runFunc = func(ctx context.Context) error {
		panic("boom")
	}

	scheduler.RegisterWorker(ok)
	scheduler.RegisterWorker(failing)
	scheduler.RegisterWorker(panicking)
	assert.Equal(t, 3, registry.Count())

	require.NoError(t, scheduler.Start(context.Background()))
	assert.Eventually(t, func() bool {
		h := make(map[string]Status)
		for _, s := range registry.Snapshot() {
			h[s.Name] = s
		}
		return h["ok-worker"].RunCount == 1 && h["failing-worker"].ErrorCount == 1 && h["panicking-worker"].ErrorCount == 1
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.Equal(t, int64(1), ok.Health().RunCount)
	assert.Equal(t, int64(0), ok.Health().ErrorCount)
	assert.EqualError(t, failing.Health().LastError, "upstream down")
	assert.ErrorContains(t, panicking.Health().LastError, "panicked: boom")
}

func TestRunOnce(t *testing.T) {
	w := newMockWorker("once", time.Hour, true)
	require.NoError(t, RunOnce(context.Background(), w))
	assert.Equal(t, 1, w.GetRunCount())
	assert.Equal(t, int64(1), w.Health().RunCount)
}

func TestRegistry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	registry := NewRegistry()
	registry.now = func() time.Time { return now }
	w := newMockWorker("reddit_collector", time.Hour, true)

	require.NoError(t, registry.Register(w))
	assert.ErrorIs(t, registry.Register(w), pkgerrors.ErrAlreadyExists)

	got, ok := registry.Get("reddit_collector")
	require.True(t, ok)
	assert.Equal(t, w.Name(), got.Name())
	assert.Equal(t, []string{"reddit_collector"}, registry.ListNames())

	// a fresh worker gets maxAge from registration before it counts as stale
	assert.Empty(t, registry.GetUnhealthyWorkers(time.Minute))
	now = now.Add(2 * time.Minute)
	assert.Equal(t, []string{"reddit_collector"}, registry.GetUnhealthyWorkers(time.Minute))

	require.NoError(t, registry.RecordRun("reddit_collector", time.Second))
	assert.Empty(t, registry.GetUnhealthyWorkers(time.Minute))

	require.NoError(t, registry.RecordError("reddit_collector", errors.New("rate limited")))
	snap := registry.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "rate limited", snap[0].LastError)
	assert.Equal(t, time.Hour, snap[0].Interval)
	assert.Equal(t, int64(2), snap[0].RunCount)

	require.NoError(t, registry.EnableWorker("reddit_collector", false))
	assert.False(t, w.Enabled())
	assert.ErrorIs(t, registry.EnableWorker("missing", true), pkgerrors.ErrNotFound)

	// disabled workers are never reported
	now = now.Add(time.Hour)
	assert.Empty(t, registry.GetUnhealthyWorkers(time.Minute))
}

func TestRegistry_ErrorRate(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newMockWorker("news_collector", time.Hour, true)))

	for i := 0; i < 4; i++ {
		require.NoError(t, registry.RecordRun("news_collector", time.Second))
	}
	for i := 0; i < 6; i++ {
		require.NoError(t, registry.RecordError("news_collector", errors.New("upstream 503")))
	}

	assert.Equal(t, []string{"news_collector"}, registry.GetUnhealthyWorkers(time.Hour))
}
