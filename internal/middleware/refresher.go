package middleware

import (
	"context"
	"sync"
	"time"

	domrepo "SilverPulse/internal/domain/repository"
)

// task is one metric's keep-warm loop configuration.
type task struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

// Refresher re-resolves each metric on its own interval so the cache is
// warm before a dashboard asks and the reading sinks see a continuous
// stream. Each tick goes through the same ladder as a request, so a dead
// upstream degrades, never crashes, the loop.
type Refresher struct {
	metrics domrepo.Metrics
	jitter  time.Duration

	mu      sync.Mutex
	tasks   []task
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

type RefresherOption func(*Refresher)

// WithJitter delays each loop's first tick by up to d, spreading upstream
// calls out on startup.
func WithJitter(d time.Duration) RefresherOption {
	return func(r *Refresher) {
		if d > 0 {
			r.jitter = d
		}
	}
}

// NewRefresher creates an empty refresher.
func NewRefresher(metrics domrepo.Metrics, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		metrics: metrics,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddTask registers a metric refresh loop. Must be called before Start.
func (r *Refresher) AddTask(name string, interval time.Duration, run func(ctx context.Context) error) {
	if interval <= 0 || run == nil {
		return
	}
	r.mu.Lock()
	r.tasks = append(r.tasks, task{name: name, interval: interval, run: run})
	r.mu.Unlock()
}

// Start launches one goroutine per task.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	tasks := make([]task, len(r.tasks))
	copy(tasks, r.tasks)
	r.mu.Unlock()

	for i, t := range tasks {
		r.wg.Add(1)
		delay := time.Duration(0)
		if r.jitter > 0 && len(tasks) > 1 {
			delay = r.jitter * time.Duration(i) / time.Duration(len(tasks))
		}
		go r.loop(ctx, t, delay)
	}
}

func (r *Refresher) loop(ctx context.Context, t task, delay time.Duration) {
	defer r.wg.Done()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	r.tick(ctx, t)
	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx, t)
		}
	}
}

func (r *Refresher) tick(ctx context.Context, t task) {
	if err := t.run(ctx); err != nil && r.metrics != nil {
		r.metrics.RecordError("refresh_" + t.name)
	}
}

// Stop stops all loops and waits for them to exit.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	r.mu.Unlock()
	close(r.stopCh)
	r.wg.Wait()
}
