package registry

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestPublishThenLoadRedis(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)

	src := New()
	require.NoError(t, src.Register(productEntity()))

	require.NoError(t, Publish(ctx, rdb, DefaultRedisKey, src))

	reg, err := LoadRedis(ctx, rdb, DefaultRedisKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"products"}, reg.Names())

	e, _ := reg.Get("products")
	assert.Equal(t, productEntity().Whitelist.Fields(), e.Whitelist.Fields())
}

func TestPublish_ReplacesPreviousContents(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	mr.HSet(DefaultRedisKey, "stale", "table: stale\n")

	src := New()
	require.NoError(t, src.Register(productEntity()))
	require.NoError(t, Publish(ctx, rdb, DefaultRedisKey, src))

	keys, err := mr.HKeys(DefaultRedisKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"products"}, keys)
}

func TestLoadRedis_MissingKey(t *testing.T) {
	_, rdb := newTestRedis(t)
	_, err := LoadRedis(context.Background(), rdb, "nothing:here")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no whitelists")
}

func TestLoadRedis_InvalidDocument(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.HSet(DefaultRedisKey, "broken", "table: t\nfields:\n  - name: a\n    kind: money\n")

	_, err := LoadRedis(context.Background(), rdb, DefaultRedisKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis whitelist broken")
}
