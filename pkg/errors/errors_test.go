package errors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
}

func TestWrap_PreservesSentinel(t *testing.T) {
	err := Wrapf(ErrSourceFailed, "reddit %s", "CryptoCurrency")
	assert.True(t, Is(err, ErrSourceFailed))
	assert.Equal(t, "reddit CryptoCurrency: source fetch failed", err.Error())
}

func TestMultiError(t *testing.T) {
	var m MultiError
	assert.Nil(t, m.ToError())

	m.Add(nil)
	assert.False(t, m.HasErrors())

	m.Add(ErrSourceFailed)
	m.Add(ErrTimeout)
	assert.True(t, m.HasErrors())
	assert.Len(t, m.Errors, 2)
	assert.Contains(t, m.ToError().Error(), "multiple errors (2)")
}

func TestStatusError_Unwrap(t *testing.T) {
	tests := []struct {
		code   int
		target error
	}{
		{429, ErrRateLimitExceeded},
		{401, ErrUnauthorized},
		{403, ErrUnauthorized},
		{404, ErrNotFound},
		{503, ErrUnavailable},
	}

	for _, tt := range tests {
		err := Wrap(NewStatusError("newsapi", tt.code, ""), "fetch")
		assert.True(t, Is(err, tt.target), "code %d", tt.code)

		var se *StatusError
		assert.True(t, As(err, &se))
		assert.Equal(t, tt.code, se.StatusCode())
	}

	assert.Nil(t, NewStatusError("newsapi", 400, "bad").Unwrap())
}

func TestRunIDContext(t *testing.T) {
	_, ok := RunIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithRunID(context.Background(), "4f1c")
	id, ok := RunIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "4f1c", id)

	_, ok = RunIDFromContext(WithRunID(context.Background(), ""))
	assert.False(t, ok)
}

func TestValidationError(t *testing.T) {
	err := Wrap(NewValidationError("limit", "must be positive", -1), "load config")
	assert.True(t, Is(err, ErrInvalidInput))
	assert.Equal(t, "load config: validation error: field 'limit': must be positive (value: -1)", err.Error())

	var invalid *ValidationError
	assert.True(t, As(err, &invalid))
	assert.Equal(t, "limit", invalid.Field)

	specific := NewValidationError("category", "unknown", "x")
	specific.Err = ErrUnknownCategory
	assert.True(t, Is(specific, ErrUnknownCategory))
	assert.False(t, Is(specific, ErrInvalidInput))
}
