package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sentimentsvc "cryptopulse/internal/services/sentiment"
	"cryptopulse/pkg/errors"
)

type aggregatorFunc func(ctx context.Context) (*sentimentsvc.RunReport, error)

func (f aggregatorFunc) RunAggregation(ctx context.Context) (*sentimentsvc.RunReport, error) {
	return f(ctx)
}

type lockStub struct {
	err      error
	acquired []string
	released int
}

func (l *lockStub) Acquire(ctx context.Context, name string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, name)
	return func() { l.released++ }, nil
}

type flushSpy struct{ calls int }

func (f *flushSpy) Flush(ctx context.Context) error {
	f.calls++
	return nil
}

func TestAggregationWorker_RunsUnderLock(t *testing.T) {
	runs := 0
	svc := aggregatorFunc(func(ctx context.Context) (*sentimentsvc.RunReport, error) {
		runs++
		report := &sentimentsvc.RunReport{Errors: &errors.MultiError{}}
		report.Errors.Add(errors.New("youtube: timeout"))
		return report, nil
	})
	lock := &lockStub{}
	flusher := &flushSpy{}

	w := NewAggregationWorker(svc, lock, flusher, time.Hour, true)
	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, 1, runs)
	assert.Equal(t, []string{AggregationWorkerName}, lock.acquired)
	assert.Equal(t, 1, lock.released)
	assert.Equal(t, 1, flusher.calls)
}

func TestAggregationWorker_SkipsWhenLockHeld(t *testing.T) {
	runs := 0
	svc := aggregatorFunc(func(ctx context.Context) (*sentimentsvc.RunReport, error) {
		runs++
		return &sentimentsvc.RunReport{}, nil
	})
	lock := &lockStub{err: errors.Wrap(errors.ErrLockNotAcquired, "lock sentiment_aggregation")}

	w := NewAggregationWorker(svc, lock, nil, time.Hour, true)
	require.NoError(t, w.Run(context.Background()))
	assert.Zero(t, runs)
}

func TestAggregationWorker_PropagatesPrimaryFailure(t *testing.T) {
	svc := aggregatorFunc(func(ctx context.Context) (*sentimentsvc.RunReport, error) {
		return &sentimentsvc.RunReport{Errors: &errors.MultiError{}}, errors.ErrUnavailable
	})
	lock := &lockStub{}

	w := NewAggregationWorker(svc, lock, nil, time.Hour, true)
	assert.ErrorIs(t, w.Run(context.Background()), errors.ErrUnavailable)
	assert.Equal(t, 1, lock.released)
}

func TestAggregationWorker_WithoutLock(t *testing.T) {
	svc := aggregatorFunc(func(ctx context.Context) (*sentimentsvc.RunReport, error) {
		return &sentimentsvc.RunReport{}, nil
	})

	w := NewAggregationWorker(svc, nil, nil, time.Hour, true)
	assert.NoError(t, w.Run(context.Background()))
}
