package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T) (*miniredis.Miniredis, *FixedWindowLimiter) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return mr, NewFixedWindowLimiter(c)
}

func TestFixedWindowLimiter_AllowsUpToLimit(t *testing.T) {
	_, l := setupLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.AllowFixedWindow(ctx, "rl:login:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i)
		assert.Equal(t, 3-i, d.Remaining)
	}

	d, err := l.AllowFixedWindow(ctx, "rl:login:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
}

func TestFixedWindowLimiter_WindowReset(t *testing.T) {
	mr, l := setupLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := l.AllowFixedWindow(ctx, "k", 1, time.Minute)
		require.NoError(t, err)
	}
	d, err := l.AllowFixedWindow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	mr.FastForward(time.Minute + time.Second)

	d, err = l.AllowFixedWindow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed, "counter should reset after the window")
}

func TestFixedWindowLimiter_KeysAreIndependent(t *testing.T) {
	_, l := setupLimiter(t)
	ctx := context.Background()

	d, err := l.AllowFixedWindow(ctx, "rl:login:a", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = l.AllowFixedWindow(ctx, "rl:login:a", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	d, err = l.AllowFixedWindow(ctx, "rl:login:b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed, "second client must have its own window")
}

func TestFixedWindowLimiter_FailsOpenWithoutRedis(t *testing.T) {
	l := NewFixedWindowLimiter(nil)

	d, err := l.AllowFixedWindow(context.Background(), "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestFixedWindowLimiter_NonPositiveLimitDisables(t *testing.T) {
	_, l := setupLimiter(t)

	d, err := l.AllowFixedWindow(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	defer c.Close()

	require.NoError(t, c.Ping(context.Background()))
}
