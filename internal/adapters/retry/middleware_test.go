package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/pkg/errors"
)

func fastConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestDo_RetriesTransientErrors(t *testing.T) {
	m := New(fastConfig())
	calls := 0

	err := m.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.NewStatusError("reddit", 503, "")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	m := New(fastConfig())
	calls := 0

	err := m.Do(context.Background(), func() error {
		calls++
		return errors.NewStatusError("youtube", 403, "quotaExceeded")
	})

	assert.ErrorIs(t, err, errors.ErrUnauthorized)
	assert.Equal(t, 1, calls)
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	m := New(fastConfig())
	calls := 0

	err := m.Do(context.Background(), func() error {
		calls++
		return errors.NewStatusError("newsapi", 429, "")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRateLimitExceeded)
	assert.Contains(t, err.Error(), "max retries (3) exceeded")
	assert.Equal(t, 4, calls)
}

func TestDoWithResult(t *testing.T) {
	m := New(fastConfig())
	calls := 0

	got, err := DoWithResult(context.Background(), m, func() (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("read: connection reset by peer")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	m := New(Config{MaxRetries: 5, InitialDelay: time.Second, MaxDelay: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Do(ctx, func() error {
		return errors.New("i/o timeout")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNegativeMaxRetriesDisablesRetry(t *testing.T) {
	m := New(Config{MaxRetries: -1})
	calls := 0
	_ = m.Do(context.Background(), func() error {
		calls++
		return errors.New("timeout")
	})
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancelled", context.Canceled, false},
		{"too many requests", errors.NewStatusError("x", 429, ""), true},
		{"server error", errors.NewStatusError("x", 502, ""), true},
		{"not found", errors.NewStatusError("x", 404, ""), false},
		{"wrapped status", errors.Wrap(errors.NewStatusError("x", 500, ""), "fetch"), true},
		{"message match", errors.New("dial tcp: lookup api: no such host"), true},
		{"decode error", errors.New("invalid character 'x'"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestCalculateDelay(t *testing.T) {
	m := New(Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2})
	assert.Equal(t, 100*time.Millisecond, m.calculateDelay(0))
	assert.Equal(t, 400*time.Millisecond, m.calculateDelay(2))
	assert.Equal(t, time.Second, m.calculateDelay(10))

	linear := New(Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Strategy: StrategyLinear})
	assert.Equal(t, 300*time.Millisecond, linear.calculateDelay(2))
}
