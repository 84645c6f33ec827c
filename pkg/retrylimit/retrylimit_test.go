package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr int

func (s statusErr) Error() string   { return http.StatusText(int(s)) }
func (s statusErr) StatusCode() int { return int(s) }

func fastConfig(attempts int) RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.RateLimitDelay = time.Millisecond
	cfg.Jitter = false
	return cfg
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls < 3 {
			return statusErr(http.StatusBadGateway)
		}
		return nil
	}, nil, fastConfig(5))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnFatal(t *testing.T) {
	boom := errors.New("invalid form body")
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return Fatal(boom)
	}, nil, fastConfig(5))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return statusErr(http.StatusInternalServerError)
	}, nil, fastConfig(3))

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, IsServerError(err))
}

func TestRetryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetryConfig(ctx, func() error { return nil }, nil, fastConfig(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimiterBacksOffOnRateLimit(t *testing.T) {
	lim := NewAdaptiveLimiter(20, 1, 40, 1, 0.5)
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls == 1 {
			return statusErr(http.StatusTooManyRequests)
		}
		return nil
	}, lim, fastConfig(3))

	require.NoError(t, err)
	assert.Equal(t, 10.0, lim.CurrentLimit())
}

func TestLimiterBounds(t *testing.T) {
	lim := NewAdaptiveLimiter(2, 1, 3, 5, 0.1)

	lim.Success()
	assert.Equal(t, 3.0, lim.CurrentLimit())

	lim.RateLimited()
	assert.Equal(t, 1.0, lim.CurrentLimit())

	// Recent error suppresses increases.
	lim.Success()
	assert.Equal(t, 1.0, lim.CurrentLimit())
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsRateLimited(statusErr(429)))
	assert.False(t, IsRateLimited(statusErr(500)))
	assert.True(t, IsServerError(statusErr(503)))
	assert.False(t, IsServerError(errors.New("plain")))
	assert.Nil(t, Fatal(nil))
}
