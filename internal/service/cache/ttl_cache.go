package cache

import (
	"sync"
	"time"

	"SilverPulse/internal/domain/models"
)

type seriesEntry struct {
	points []models.HistoricalPoint
	exp    time.Time
}

// SeriesCache holds historical price series keyed by range ("1mo", "1y").
// Series are immutable once fetched, so a plain TTL map is enough.
type SeriesCache struct {
	mu sync.RWMutex
	m  map[string]seriesEntry
}

func NewSeriesCache() *SeriesCache {
	return &SeriesCache{m: make(map[string]seriesEntry)}
}

func (c *SeriesCache) Get(key string) ([]models.HistoricalPoint, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.points, true
}

func (c *SeriesCache) Set(key string, points []models.HistoricalPoint, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = seriesEntry{points: points, exp: exp}
	c.mu.Unlock()
}
