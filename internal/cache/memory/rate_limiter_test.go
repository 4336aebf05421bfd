package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "client-a", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be within the limit", i+1)
	}

	ok, err := rl.Allow(ctx, "client-a", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "fourth request should exceed the limit")
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter()
	ctx := context.Background()

	ok, err := rl.Allow(ctx, "client-a", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = rl.Allow(ctx, "client-a", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = rl.Allow(ctx, "client-b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "a saturated key must not affect other keys")
}

func TestRateLimiterWindowExpires(t *testing.T) {
	rl := NewRateLimiter()
	ctx := context.Background()

	ok, err := rl.Allow(ctx, "client-a", 1, 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = rl.Allow(ctx, "client-a", 1, 20*time.Millisecond)
	require.NoError(t, err)
	require.False(t, ok)

	time.Sleep(30 * time.Millisecond)

	ok, err = rl.Allow(ctx, "client-a", 1, 20*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok, "old entries should fall out of the window")
}

func TestRateLimiterConcurrentAccess(t *testing.T) {
	rl := NewRateLimiter()
	ctx := context.Background()

	const workers = 20
	allowed := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		go func() {
			ok, _ := rl.Allow(ctx, "shared", 5, time.Minute)
			allowed <- ok
		}()
	}

	granted := 0
	for i := 0; i < workers; i++ {
		if <-allowed {
			granted++
		}
	}
	assert.Equal(t, 5, granted, "exactly the limit should be granted under contention")
}
