package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgcache "SilverPulse/pkg/cache"
)

// ErrNoSnapshot is returned by Load when no snapshot exists for a metric.
var ErrNoSnapshot = errors.New("snapshot: not found")

type snapshotEnvelope struct {
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// SnapshotStore persists the last live reading per metric in a cache
// backend (Redis in production, memory in tests). The TTL equals the
// stale window, so anything loadable is by definition still servable.
type SnapshotStore struct {
	cache pkgcache.Service
	ttl   time.Duration
}

// NewSnapshotStore creates a snapshot store with the given retention.
func NewSnapshotStore(c pkgcache.Service, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{cache: c, ttl: ttl}
}

func (s *SnapshotStore) Save(ctx context.Context, metric string, payload []byte, fetchedAt time.Time) error {
	env := snapshotEnvelope{Payload: payload, FetchedAt: fetchedAt}
	return s.cache.Set(ctx, s.key(metric), env, s.ttl)
}

func (s *SnapshotStore) Load(ctx context.Context, metric string) ([]byte, time.Time, error) {
	var env snapshotEnvelope
	if err := s.cache.Get(ctx, s.key(metric), &env); err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, time.Time{}, ErrNoSnapshot
		}
		return nil, time.Time{}, err
	}
	return env.Payload, env.FetchedAt, nil
}

func (s *SnapshotStore) key(metric string) string {
	return fmt.Sprintf("snapshot:%s", metric)
}
