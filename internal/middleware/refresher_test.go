package middleware

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefresherRunsTask(t *testing.T) {
	var calls int64
	r := NewRefresher(nil)
	r.AddTask("spot_price", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})

	r.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt64(&calls), int64(2), "task must run immediately and on ticks")
}

func TestRefresherSurvivesTaskErrors(t *testing.T) {
	var calls int64
	r := NewRefresher(nil)
	r.AddTask("comex_inventory", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt64(&calls, 1)
		return errors.New("upstream down")
	})

	r.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt64(&calls), int64(2), "errors must not stop the loop")
}

func TestRefresherStopIsIdempotent(t *testing.T) {
	r := NewRefresher(nil)
	r.AddTask("noop", time.Hour, func(ctx context.Context) error { return nil })
	r.Start(context.Background())
	r.Stop()
	r.Stop()
}

func TestRefresherIgnoresInvalidTasks(t *testing.T) {
	r := NewRefresher(nil)
	r.AddTask("bad", 0, func(ctx context.Context) error { return nil })
	r.AddTask("nil", time.Second, nil)
	r.Start(context.Background())
	r.Stop()
}
