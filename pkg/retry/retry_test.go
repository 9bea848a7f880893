package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoWithResult_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	result, err := DoWithResult(context.Background(), fastConfig(), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("connection refused")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestDoWithResult_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	_, err := DoWithResult(context.Background(), fastConfig(), func() (string, error) {
		attempts++
		return "", errors.New("invalid credentials")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "permanent errors must not be retried")
}

func TestDoWithResult_ExhaustsRetries(t *testing.T) {
	attempts := 0
	_, err := DoWithResult(context.Background(), fastConfig(), func() (int, error) {
		attempts++
		return 0, errors.New("i/o timeout")
	})

	require.Error(t, err)
	assert.Equal(t, 4, attempts, "initial attempt plus MaxRetries")
}

func TestDoWithResult_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &Config{MaxRetries: 3, InitialDelay: time.Second, MaxDelay: time.Second, Multiplier: 1.0}
	_, err := DoWithResult(ctx, cfg, func() (int, error) {
		return 0, errors.New("connection refused")
	})

	assert.True(t, errors.Is(err, context.Canceled))
}

type declaredRetryable struct{ retryable bool }

func (e *declaredRetryable) Error() string     { return "declared" }
func (e *declaredRetryable) IsRetryable() bool { return e.retryable }

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(errors.New("dial tcp: connection refused")))
	assert.True(t, IsRetryable(errors.New("read: i/o timeout")))
	assert.False(t, IsRetryable(errors.New("syntax error")))
	assert.True(t, IsRetryable(&declaredRetryable{retryable: true}))
	assert.False(t, IsRetryable(&declaredRetryable{retryable: false}))
}
