package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	type reading struct {
		Price float64 `json:"price"`
	}

	require.NoError(t, mc.Set(ctx, "spot", reading{Price: 38.21}, time.Minute))

	var got reading
	require.NoError(t, mc.Get(ctx, "spot", &got))
	assert.Equal(t, 38.21, got.Price)

	ok, err := mc.Exists(ctx, "spot")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var s string
	err := mc.Get(context.Background(), "absent", &s)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(time.Hour))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "spot", "38.21", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var s string
	err := mc.Get(ctx, "spot", &s)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", "1", time.Minute))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", "2", time.Minute))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", "3", time.Minute))

	var s string
	err := mc.Get(ctx, "a", &s)
	assert.ErrorIs(t, err, ErrCacheMiss, "oldest entry is evicted first")
	require.NoError(t, mc.Get(ctx, "c", &s))
	assert.Equal(t, "3", s)
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "spot", "38.21", time.Minute))
	require.NoError(t, mc.Delete(ctx, "spot"))

	ok, err := mc.Exists(ctx, "spot")
	require.NoError(t, err)
	assert.False(t, ok)
}
