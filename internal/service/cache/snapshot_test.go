package cache

import (
	"context"
	"testing"
	"time"

	pkgcache "SilverPulse/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	mem := pkgcache.NewMemoryCache()
	defer mem.Close()
	s := NewSnapshotStore(mem, time.Hour)

	at := time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(context.Background(), "spot_price", []byte(`{"price":38.21}`), at))

	payload, fetchedAt, err := s.Load(context.Background(), "spot_price")
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":38.21}`, string(payload))
	assert.True(t, fetchedAt.Equal(at))
}

func TestSnapshotStoreMiss(t *testing.T) {
	mem := pkgcache.NewMemoryCache()
	defer mem.Close()
	s := NewSnapshotStore(mem, time.Hour)

	_, _, err := s.Load(context.Background(), "comex_inventory")
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotStoreKeysPerMetric(t *testing.T) {
	mem := pkgcache.NewMemoryCache()
	defer mem.Close()
	s := NewSnapshotStore(mem, time.Hour)

	at := time.Now()
	require.NoError(t, s.Save(context.Background(), "spot_price", []byte(`{"a":1}`), at))
	require.NoError(t, s.Save(context.Background(), "cme_margins", []byte(`{"b":2}`), at))

	payload, _, err := s.Load(context.Background(), "cme_margins")
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(payload))
}
