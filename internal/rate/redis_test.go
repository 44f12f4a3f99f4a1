package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, "rl:"), mr
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	l, mr := newRedisLimiter(t)
	ctx := context.Background()
	cfg := Config{Window: time.Minute, MaxRequests: 2}

	d, err := l.Check(ctx, "submit:1.2.3.4", cfg)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
	assert.WithinDuration(t, time.Now().Add(time.Minute), d.ResetTime, 2*time.Second)

	d, err = l.Check(ctx, "submit:1.2.3.4", cfg)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, err = l.Check(ctx, "submit:1.2.3.4", cfg)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 2, d.Count)

	// el rechazo no incrementó
	v, err := mr.Get("rl:submit:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	mr.FastForward(61 * time.Second)

	d, err = l.Check(ctx, "submit:1.2.3.4", cfg)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
}

func TestRedisLimiter_EmptyIdentifier(t *testing.T) {
	l, _ := newRedisLimiter(t)
	_, err := l.Check(context.Background(), "", Config{})
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestRedisLimiter_ServerDown(t *testing.T) {
	l, mr := newRedisLimiter(t)
	mr.Close()
	_, err := l.Check(context.Background(), "x", Config{})
	assert.Error(t, err)
}

func TestNew_Backends(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	for _, tc := range []struct {
		opts    Options
		backend string
	}{
		{Options{}, BackendLRU},
		{Options{Backend: "TTL"}, BackendTTL},
		{Options{Backend: "redis", Redis: client}, BackendRedis},
	} {
		l, err := New(tc.opts)
		require.NoError(t, err)
		inst, ok := l.(*Instrumented)
		require.True(t, ok)
		assert.Equal(t, tc.backend, inst.Backend())

		d, err := l.Check(context.Background(), "factory", Config{MaxRequests: 1})
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}

	_, err := New(Options{Backend: "redis"})
	assert.Error(t, err)
	_, err = New(Options{Backend: "memcached"})
	assert.Error(t, err)
}

func TestJanitor_StopsOnCancel(t *testing.T) {
	clk := newFakeClock()
	l, err := New(Options{Backend: BackendLRU}, WithClock(clk.Now))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Janitor(ctx, l, 5*time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}

	// ttl no implementa Pruner: retorna enseguida
	ttl, err := New(Options{Backend: BackendTTL})
	require.NoError(t, err)
	assert.NoError(t, Janitor(context.Background(), ttl, time.Millisecond))
}
