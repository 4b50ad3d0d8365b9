package policystore

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Store{R: client}, mr
}

func TestStorePutGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	payload := []byte(`{"getProductId":"B","buyType":"product","buyProductId":"A"}`)

	require.NoError(t, store.Put(ctx, "shop-1", "summer", payload))

	got, err := store.Get(ctx, "shop-1", "summer")
	require.NoError(t, err)
	require.Equal(t, payload, got)

	_, err = store.Get(ctx, "shop-2", "summer")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, "shop-1", "summer"))
	_, err = store.Get(ctx, "shop-1", "summer")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, "shop-1", "summer"))
}

func TestStoreTTL(t *testing.T) {
	store, mr := newTestStore(t)
	store.TTL = time.Minute
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "shop-1", "flash", []byte(`{}`)))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "shop-1", "flash")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreKeysScopedToShop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "shop-1", "summer", []byte(`{}`)))
	require.NoError(t, store.Put(ctx, "shop-1", "winter", []byte(`{}`)))
	require.NoError(t, store.Put(ctx, "shop-2", "spring", []byte(`{}`)))

	keys, err := store.Keys(ctx, "shop-1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"summer", "winter"}, keys)
}

func TestStoreNotConfigured(t *testing.T) {
	var store *Store
	ctx := context.Background()
	require.Error(t, store.Put(ctx, "s", "k", nil))
	_, err := store.Get(ctx, "s", "k")
	require.Error(t, err)
}
