package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, perMinute int) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRedis(client, perMinute)
	now := time.Unix(120, 0)
	l.now = func() time.Time { return now }
	return l, mr
}

func TestRedis_AllowUpToLimit(t *testing.T) {
	l, _ := newTestRedis(t, 2)

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(t.Context(), "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}

	ok, err := l.Allow(t.Context(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(t.Context(), "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok, "другой клиент")
}

func TestRedis_CounterExpiresWithWindow(t *testing.T) {
	l, mr := newTestRedis(t, 1)

	_, err := l.Allow(t.Context(), "1.2.3.4")
	require.NoError(t, err)

	key := "ratelimit:chat:1.2.3.4:2"
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(time.Minute)
	assert.False(t, mr.Exists(key))
}

func TestRedis_NewWindowResetsCount(t *testing.T) {
	l, _ := newTestRedis(t, 1)

	ok, err := l.Allow(t.Context(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(t.Context(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	next := time.Unix(180, 0)
	l.now = func() time.Time { return next }

	ok, err = l.Allow(t.Context(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_ErrorWhenServerDown(t *testing.T) {
	l, mr := newTestRedis(t, 1)
	mr.Close()

	ok, err := l.Allow(t.Context(), "1.2.3.4")

	assert.False(t, ok)
	assert.ErrorContains(t, err, "redis rate limit")
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(t.Context(), "redis://"+mr.Addr())
	require.NoError(t, err)
	client.Close()

	_, err = NewRedisClient(t.Context(), "not a url")
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}
