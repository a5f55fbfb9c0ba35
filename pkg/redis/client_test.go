package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegthaliclub/catering-backend/pkg/config"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestFixedWindowAllow(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()

	for i := int64(1); i <= 2; i++ {
		allowed, count, err := client.FixedWindowAllow(ctx, "relay:ip:10.0.0.1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, i, count)
	}
	allowed, count, err := client.FixedWindowAllow(ctx, "relay:ip:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(3), count)

	ttl := mr.TTL("catering:rate_limit:relay:ip:10.0.0.1")
	assert.True(t, ttl > 0 && ttl <= time.Minute, "window ttl %s", ttl)

	mr.FastForward(time.Minute + time.Second)
	allowed, count, err = client.FixedWindowAllow(ctx, "relay:ip:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), count)
}

func TestSetGetDel(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()
	key := "catering:in-progress:client-1"

	require.NoError(t, client.Set(ctx, key, `{"current_step":2}`, 0))
	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"current_step":2}`, got)

	ok, err := client.SetNX(ctx, key, "other", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.ErrorIs(t, err, redis.Nil)
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	assert.Error(t, client.Ping(context.Background()))
	_, _, err := client.FixedWindowAllow(context.Background(), "x", 1, time.Second)
	assert.Error(t, err)
	assert.NoError(t, client.Close())
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "catering:idempotency:relay:id", client.IdempotencyKey("relay", "id"))
	assert.Equal(t, "catering:rate_limit:relay:10.0.0.1", client.RateLimitKey("relay:10.0.0.1"))
	assert.Equal(t, "catering:idempotency:relay", client.IdempotencyKey("relay", ""))
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := options(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := options(config.RedisConfig{URL: "redis://:secret@cache:6380/0", DB: 3, PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = options(config.RedisConfig{Address: "localhost:6379", DB: 1})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 1, opts.DB)
}

func TestDeleteIfValue(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("catering:cron:prune:local", "owner-a"))

	deleted, err := client.DeleteIfValue(ctx, "catering:cron:prune:local", "owner-b")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.True(t, mr.Exists("catering:cron:prune:local"))

	deleted, err = client.DeleteIfValue(ctx, "catering:cron:prune:local", "owner-a")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, mr.Exists("catering:cron:prune:local"))
}
