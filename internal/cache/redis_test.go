package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Laptop", Slug: "laptop", Price: decimal.RequireFromString("999.00"), InStock: true},
		{ID: 2, Name: "Mouse", Slug: "mouse", Price: decimal.RequireFromString("19.99"), InStock: false},
	}
}

func TestGetList_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	products := testProducts()
	data, _ := json.Marshal(products)
	mr.Set(productListKey, string(data))

	result, err := cache.GetList(context.Background())
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, int64(1), result[0].ID)
	assert.True(t, result[0].Price.Equal(decimal.RequireFromString("999.00")))
	assert.False(t, result[1].InStock)
}

func TestGetList_Miss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := cache.GetList(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSetList_RoundTrip(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cache.SetList(ctx, testProducts()))
	assert.True(t, mr.Exists(productListKey))

	result, err := cache.GetList(ctx)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Mouse", result[1].Name)
	assert.True(t, result[1].Price.Equal(decimal.RequireFromString("19.99")))
}

func TestDelete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, cache.SetList(ctx, testProducts()))
	require.NoError(t, cache.Delete(ctx))

	assert.False(t, mr.Exists(productListKey))
	_, err := cache.GetList(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
