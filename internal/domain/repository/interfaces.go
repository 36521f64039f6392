package repository

import (
	"context"
	"time"
)

// Metrics abstracts operational counters so services avoid a hard
// Prometheus dependency.
type Metrics interface {
	// RecordFetch counts one wrapper resolution for a provider with its
	// outcome: live, cached, stale, fallback or exhausted.
	RecordFetch(provider, outcome string)
	// RecordFetchLatency records upstream fetch duration in seconds.
	RecordFetchLatency(provider string, seconds float64)
	// RecordError counts an error by kind (fetch, parse, plausibility, ...).
	RecordError(kind string)
	// RecordValue records the latest numeric value of a metric.
	RecordValue(metric string, value float64)
}

// ReadingEvent is one live observation forwarded to sinks.
type ReadingEvent struct {
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadingSink receives every live reading as it is fetched. Implementations
// are best-effort; a sink failure never fails the read path.
type ReadingSink interface {
	Record(ctx context.Context, ev ReadingEvent) error
}

// SnapshotStore persists the most recent reading per metric so the stale
// cache tier survives a process restart.
type SnapshotStore interface {
	Save(ctx context.Context, metric string, payload []byte, fetchedAt time.Time) error
	Load(ctx context.Context, metric string) (payload []byte, fetchedAt time.Time, err error)
}
