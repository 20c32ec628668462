package store_test

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcline/storefront/models"
	"github.com/marcline/storefront/store"
)

func redisTestClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 9})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())

	require.NoError(t, client.FlushDB(ctx).Err())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})
	return client
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestCachedStore_GetByIDServedFromCacheAfterMiss(t *testing.T) {
	client := redisTestClient(t)
	inner := store.NewMemoryProductStore()
	cached := store.NewCachedProductStore(inner, client, quietLogger())
	ctx := context.Background()

	p := models.Product{ID: "p1", Name: "Widget", Price: 19.99}
	require.NoError(t, cached.Insert(ctx, &p))

	// First read misses and fills the cache.
	got, err := cached.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p, *got)

	exists, err := client.Exists(ctx, "product:p1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	// Second read must not need the inner store anymore.
	got, err = cached.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestCachedStore_ErrorsPassThrough(t *testing.T) {
	client := redisTestClient(t)
	cached := store.NewCachedProductStore(store.NewMemoryProductStore(), client, quietLogger())
	ctx := context.Background()

	_, err := cached.GetByID(ctx, "p404")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = cached.GetByID(ctx, "not a valid id")
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func TestCachedStore_ListFallsBackAndRepopulates(t *testing.T) {
	client := redisTestClient(t)
	inner := store.NewMemoryProductStore()
	cached := store.NewCachedProductStore(inner, client, quietLogger())
	ctx := context.Background()

	p1 := models.Product{ID: "p1", Name: "Widget", Price: 19.99}
	p2 := models.Product{ID: "p2", Name: "Gadget", Price: 5.49}
	require.NoError(t, inner.Insert(ctx, &p1))
	require.NoError(t, inner.Insert(ctx, &p2))

	products, err := cached.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Product{p1, p2}, products)

	// Cache population runs in the background.
	assert.Eventually(t, func() bool {
		n, err := client.LLen(ctx, "product_ids").Result()
		return err == nil && n == 2
	}, 2*time.Second, 50*time.Millisecond)

	products, err = cached.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Product{p1, p2}, products)
}

func TestCachedStore_ListKeepsInsertionOrderWhenWarm(t *testing.T) {
	client := redisTestClient(t)
	inner := store.NewMemoryProductStore()
	cached := store.NewCachedProductStore(inner, client, quietLogger())
	ctx := context.Background()

	// Deliberately not lexical order.
	want := []models.Product{
		{ID: "c", Name: "Third", Price: 3},
		{ID: "a", Name: "First", Price: 1},
		{ID: "b", Name: "Second", Price: 2},
	}
	for i := range want {
		require.NoError(t, inner.Insert(ctx, &want[i]))
	}

	// Warm the cache and wait for the background populate.
	_, err := cached.List(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		n, err := client.LLen(ctx, "product_ids").Result()
		return err == nil && n == int64(len(want))
	}, 2*time.Second, 50*time.Millisecond)

	// Warm reads must keep returning insertion order.
	for i := 0; i < 5; i++ {
		products, err := cached.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, products)
	}
}

func TestCachedStore_ListFallsBackOnPartialEviction(t *testing.T) {
	client := redisTestClient(t)
	inner := store.NewMemoryProductStore()
	cached := store.NewCachedProductStore(inner, client, quietLogger())
	ctx := context.Background()

	p1 := models.Product{ID: "p1", Name: "Widget", Price: 19.99}
	p2 := models.Product{ID: "p2", Name: "Gadget", Price: 5.49}
	require.NoError(t, inner.Insert(ctx, &p1))
	require.NoError(t, inner.Insert(ctx, &p2))

	_, err := cached.List(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		n, err := client.LLen(ctx, "product_ids").Result()
		return err == nil && n == 2
	}, 2*time.Second, 50*time.Millisecond)

	// Evict one product key but leave the id list intact. The listing
	// must fall back to the inner store, never come up short.
	require.NoError(t, client.Del(ctx, "product:p1").Err())

	products, err := cached.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Product{p1, p2}, products)
}
