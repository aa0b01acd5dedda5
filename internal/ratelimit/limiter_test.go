package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/acme/sales-callback/internal/config"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, config.RateLimitConfig{MaxPerWindow: max, Window: window}), mr
}

func TestAllowWithinWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "+46701234567")
		require.NoError(t, err)
		require.True(t, ok, "submission %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, "+46701234567")
	require.NoError(t, err)
	require.False(t, ok, "third submission must be rejected")
}

func TestAllowIsPerKey(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "+46701111111")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "+46702222222")
	require.NoError(t, err)
	require.True(t, ok, "a different number has its own window")
}

func TestWindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	ok, err := limiter.Allow(ctx, "+46701234567")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "+46701234567")
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = limiter.Allow(ctx, "+46701234567")
	require.NoError(t, err)
	require.True(t, ok, "a new window opens after expiry")
}
