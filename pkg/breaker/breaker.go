package breaker

import (
	"time"

	cb "github.com/sony/gobreaker"
)

// Breaker wraps a circuit breaker around upstream fetches so a flapping
// source stops burning request budget and the caller falls through to
// the stale tier quickly.
type Breaker struct {
	cb *cb.CircuitBreaker
}

// New creates a breaker for the named upstream. The breaker opens after
// three consecutive failures, or a >20% failure rate once at least ten
// requests have been seen, and half-opens after 60 seconds.
func New(name string) *Breaker {
	st := cb.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts cb.Counts) bool {
		if counts.ConsecutiveFailures >= 3 {
			return true
		}
		if counts.Requests < 10 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.2
	}
	return &Breaker{cb: cb.NewCircuitBreaker(st)}
}

// Execute runs fn through the breaker. When the breaker is open it
// returns gobreaker.ErrOpenState without invoking fn.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	return b.cb.Execute(fn)
}

// State reports the current breaker state as a string for logging.
func (b *Breaker) State() string {
	return b.cb.State().String()
}
