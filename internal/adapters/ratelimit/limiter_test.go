package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_BurstThenBlocks(t *testing.T) {
	l := NewLimiter("reddit", 60) // 1 rps, burst 6

	for i := 0; i < 6; i++ {
		assert.True(t, l.Allow(), "burst request %d", i)
	}
	assert.False(t, l.Allow())
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := NewLimiter("newsapi", 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter newsapi")
}

func TestLimiter_ZeroIsUnlimited(t *testing.T) {
	l := NewLimiter("rss", 0)
	for i := 0; i < 1000; i++ {
		require.True(t, l.Allow())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	yt := r.Register("youtube", 120)

	assert.Same(t, yt, r.Get("youtube"))
	assert.Equal(t, "coingecko", r.Get("coingecko").Name())
	assert.Same(t, r.Get("coingecko"), r.Get("coingecko"))
}
