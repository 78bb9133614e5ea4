package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/internal/adapters/cache"
	"github.com/andrescamacho/mediator-go/internal/domain/order"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

func newTestCache(t *testing.T, ttl time.Duration) (*cache.OrderCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)

	client, err := cache.Connect(context.Background(), config.CacheConfig{Address: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewOrderCache(client, "test:", ttl), srv
}

func TestOrderCache_SetThenGet(t *testing.T) {
	// Arrange
	c, srv := newTestCache(t, time.Minute)
	ctx := context.Background()
	o := &order.Order{ID: 1001, ProductName: "Widget", Price: 9.5, OrderDate: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}

	// Act
	require.NoError(t, c.Set(ctx, o))
	got, ok, err := c.Get(ctx, 1001)

	// Assert
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, o.ProductName, got.ProductName)
	assert.True(t, o.OrderDate.Equal(got.OrderDate))
	assert.True(t, srv.Exists("test:order:1001"))
	assert.Equal(t, time.Minute, srv.TTL("test:order:1001"))
}

func TestOrderCache_Miss(t *testing.T) {
	c, _ := newTestCache(t, 0)

	got, ok, err := c.Get(context.Background(), 7)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestOrderCache_ExpiresAndDeletes(t *testing.T) {
	c, srv := newTestCache(t, time.Second)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, &order.Order{ID: 1}))
	require.NoError(t, c.Set(ctx, &order.Order{ID: 2}))

	srv.FastForward(2 * time.Second)
	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, &order.Order{ID: 2}))
	require.NoError(t, c.Delete(ctx, 2))
	_, ok, err = c.Get(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderCache_CorruptEntryIsMiss(t *testing.T) {
	c, srv := newTestCache(t, time.Minute)
	require.NoError(t, srv.Set("test:order:5", "{not json"))

	_, ok, err := c.Get(context.Background(), 5)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConnect_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := cache.Connect(context.Background(), config.CacheConfig{Address: addr})

	assert.Error(t, err)
}
