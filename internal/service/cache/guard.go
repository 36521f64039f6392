package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"SilverPulse/internal/domain/models"
	"SilverPulse/internal/domain/repository"
	"SilverPulse/pkg/breaker"
	applogger "SilverPulse/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// Taggable is satisfied by every reading type: WithSource returns a copy
// retagged with where it actually came from.
type Taggable[T any] interface {
	WithSource(src models.DataSource, errMsg string) T
}

// FetchFunc pulls a fresh reading from the upstream source.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// FallbackFunc builds the last-known-typical value for a metric.
type FallbackFunc[T any] func(now time.Time) T

// Clock returns the current time; injected in tests.
type Clock func() time.Time

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Guard wraps a single upstream source with the resolution ladder:
//
//  1. fresh cache hit, tagged cached
//  2. live fetch, tagged live
//  3. stale cache within the stale window, tagged cached with the error
//  4. fallback value tagged fallback, or ExhaustionError when fallback
//     is disallowed for the metric
//
// Concurrent callers share one in-flight fetch per metric.
type Guard[T Taggable[T]] struct {
	metric string
	fetch  FetchFunc[T]

	freshWindow time.Duration
	staleWindow time.Duration

	fallback FallbackFunc[T]

	brk       *breaker.Breaker
	metrics   repository.Metrics
	snapshots repository.SnapshotStore
	onLive    func(ctx context.Context, v T, at time.Time)
	log       *applogger.Logger
	clock     Clock

	sf singleflight.Group

	mu     sync.RWMutex
	mem    entry[T]
	filled bool
}

func (g *Guard[T]) load() (entry[T], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mem, g.filled
}

func (g *Guard[T]) store(e entry[T]) {
	g.mu.Lock()
	g.mem = e
	g.filled = true
	g.mu.Unlock()
}

// GuardOption configures a Guard.
type GuardOption[T Taggable[T]] func(*Guard[T])

// WithWindows sets the fresh and stale windows.
func WithWindows[T Taggable[T]](fresh, stale time.Duration) GuardOption[T] {
	return func(g *Guard[T]) {
		g.freshWindow = fresh
		g.staleWindow = stale
	}
}

// WithFallback enables tier 4 with the given value builder. Metrics
// where synthetic data would poison downstream math leave this unset
// and get an ExhaustionError instead.
func WithFallback[T Taggable[T]](fn FallbackFunc[T]) GuardOption[T] {
	return func(g *Guard[T]) {
		g.fallback = fn
	}
}

// WithBreaker routes live fetches through a circuit breaker.
func WithBreaker[T Taggable[T]](b *breaker.Breaker) GuardOption[T] {
	return func(g *Guard[T]) {
		g.brk = b
	}
}

// WithMetrics records fetch outcomes and latencies.
func WithMetrics[T Taggable[T]](m repository.Metrics) GuardOption[T] {
	return func(g *Guard[T]) {
		g.metrics = m
	}
}

// WithSnapshots persists every live reading so the stale tier survives
// a restart.
func WithSnapshots[T Taggable[T]](s repository.SnapshotStore) GuardOption[T] {
	return func(g *Guard[T]) {
		g.snapshots = s
	}
}

// WithOnLive registers a hook invoked after every successful live fetch.
func WithOnLive[T Taggable[T]](fn func(ctx context.Context, v T, at time.Time)) GuardOption[T] {
	return func(g *Guard[T]) {
		g.onLive = fn
	}
}

// WithLogger sets the guard logger.
func WithLogger[T Taggable[T]](l *applogger.Logger) GuardOption[T] {
	return func(g *Guard[T]) {
		g.log = l
	}
}

// WithClock injects a clock for tests.
func WithClock[T Taggable[T]](c Clock) GuardOption[T] {
	return func(g *Guard[T]) {
		g.clock = c
	}
}

// NewGuard creates a guard for one metric.
func NewGuard[T Taggable[T]](metric string, fetch FetchFunc[T], opts ...GuardOption[T]) *Guard[T] {
	g := &Guard[T]{
		metric:      metric,
		fetch:       fetch,
		freshWindow: 5 * time.Minute,
		staleWindow: 24 * time.Hour,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Get resolves a reading through the ladder. The returned error is
// non-nil only when the ladder is exhausted.
func (g *Guard[T]) Get(ctx context.Context) (T, error) {
	now := g.clock()

	if e, ok := g.cached(ctx, now); ok {
		if now.Sub(e.fetchedAt) <= g.freshWindow {
			g.record("cached")
			return e.value.WithSource(models.SourceCached, ""), nil
		}
	}

	v, err := g.fetchShared(ctx, now)
	if err == nil {
		g.record("live")
		return v, nil
	}

	g.recordError(err)

	if e, ok := g.cached(ctx, g.clock()); ok {
		if g.clock().Sub(e.fetchedAt) <= g.staleWindow {
			g.record("stale")
			g.warn("serving stale cache", err)
			return e.value.WithSource(models.SourceCached, err.Error()), nil
		}
	}

	if g.fallback != nil {
		g.record("fallback")
		g.warn("serving fallback", err)
		return g.fallback(g.clock()).WithSource(models.SourceFallback, err.Error()), nil
	}

	g.record("exhausted")
	var zero T
	return zero, &models.ExhaustionError{Metric: g.metric, Err: err}
}

// cached returns the in-memory entry, warm-loading the snapshot store
// on a cold start.
func (g *Guard[T]) cached(ctx context.Context, now time.Time) (entry[T], bool) {
	if e, ok := g.load(); ok {
		return e, true
	}
	if g.snapshots == nil {
		return entry[T]{}, false
	}

	payload, fetchedAt, err := g.snapshots.Load(ctx, g.metric)
	if err != nil || len(payload) == 0 {
		return entry[T]{}, false
	}
	if now.Sub(fetchedAt) > g.staleWindow {
		return entry[T]{}, false
	}

	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		g.warn("snapshot unmarshal failed", err)
		return entry[T]{}, false
	}

	e := entry[T]{value: v, fetchedAt: fetchedAt}
	g.store(e)
	return e, true
}

// fetchShared performs the live fetch, deduplicating concurrent callers.
func (g *Guard[T]) fetchShared(ctx context.Context, now time.Time) (T, error) {
	res, err, _ := g.sf.Do(g.metric, func() (interface{}, error) {
		return g.fetchLive(ctx, now)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (g *Guard[T]) fetchLive(ctx context.Context, now time.Time) (T, error) {
	start := g.clock()

	do := func() (any, error) {
		return g.fetch(ctx)
	}

	var raw any
	var err error
	if g.brk != nil {
		raw, err = g.brk.Execute(do)
	} else {
		raw, err = do()
	}

	if g.metrics != nil {
		g.metrics.RecordFetchLatency(g.metric, g.clock().Sub(start).Seconds())
	}
	if err != nil {
		var zero T
		return zero, err
	}

	v := raw.(T).WithSource(models.SourceLive, "")
	g.store(entry[T]{value: v, fetchedAt: now})

	if g.snapshots != nil {
		if payload, merr := json.Marshal(v); merr == nil {
			if serr := g.snapshots.Save(ctx, g.metric, payload, now); serr != nil {
				g.warn("snapshot save failed", serr)
			}
		}
	}

	if g.onLive != nil {
		g.onLive(ctx, v, now)
	}

	return v, nil
}

func (g *Guard[T]) record(outcome string) {
	if g.metrics != nil {
		g.metrics.RecordFetch(g.metric, outcome)
	}
}

func (g *Guard[T]) recordError(err error) {
	if g.metrics == nil {
		return
	}
	kind := string(models.KindFetch)
	var fe *models.FetchError
	if errors.As(err, &fe) {
		kind = string(fe.Kind)
	}
	g.metrics.RecordError(kind)
}

func (g *Guard[T]) warn(msg string, err error) {
	if g.log == nil {
		return
	}
	fields := []applogger.Field{
		applogger.String("metric", g.metric),
		applogger.Error(err),
	}
	if g.brk != nil {
		fields = append(fields, applogger.String("breaker", g.brk.State()))
	}
	g.log.Warn(msg, fields...)
}

// Seed primes the in-memory cache, used in tests and warm starts.
func (g *Guard[T]) Seed(v T, fetchedAt time.Time) {
	g.store(entry[T]{value: v, fetchedAt: fetchedAt})
}
