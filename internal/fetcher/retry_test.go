package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		got, err := retryWithBackoff(context.Background(), fastRetry(), func() (string, error) {
			calls++
			if calls < 2 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		cause := errors.New("bad request")
		calls := 0
		_, err := retryWithBackoff(context.Background(), fastRetry(), func() (int, error) {
			calls++
			return 0, permanent(cause)
		})
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		_, err := retryWithBackoff(context.Background(), RetryConfig{}, func() (int, error) {
			calls++
			return 1, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := retryWithBackoff(ctx, cfg, func() (int, error) {
			return 0, errors.New("fail")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
