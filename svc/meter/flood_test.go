package meter_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/meterkit/svc/meter"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestFloodLimiterAllow(t *testing.T) {
	t.Parallel()

	t.Run("allows up to the limit then denies", func(t *testing.T) {
		t.Parallel()

		_, client := newTestRedis(t)
		limiter := meter.NewFloodLimiter(client, meter.FloodConfig{Limit: 3, Window: time.Minute, Prefix: "flood"})

		ctx := context.Background()
		for i := range 3 {
			ok, err := limiter.Allow(ctx, 42)
			require.NoError(t, err)
			assert.True(t, ok, "message %d should pass", i+1)
		}

		ok, err := limiter.Allow(ctx, 42)
		require.NoError(t, err)
		assert.False(t, ok, "fourth message in the window is flood-limited")
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		t.Parallel()

		mr, client := newTestRedis(t)
		limiter := meter.NewFloodLimiter(client, meter.FloodConfig{Limit: 1, Window: time.Minute, Prefix: "flood"})

		ctx := context.Background()
		ok, err := limiter.Allow(ctx, 7)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = limiter.Allow(ctx, 7)
		require.NoError(t, err)
		require.False(t, ok)

		mr.FastForward(2 * time.Minute)

		ok, err = limiter.Allow(ctx, 7)
		require.NoError(t, err)
		assert.True(t, ok, "a fresh window admits the user again")
	})

	t.Run("users do not contend", func(t *testing.T) {
		t.Parallel()

		_, client := newTestRedis(t)
		limiter := meter.NewFloodLimiter(client, meter.FloodConfig{Limit: 1, Window: time.Minute, Prefix: "flood"})

		ctx := context.Background()
		ok, err := limiter.Allow(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = limiter.Allow(ctx, 2)
		require.NoError(t, err)
		assert.True(t, ok, "another user's window is independent")
	})
}
