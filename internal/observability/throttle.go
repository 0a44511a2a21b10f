package observability

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Throttle rate-limits repeated log statements by key. Recoverable conditions
// like a missing sample log recur every sol for every location; throttling
// keeps them visible without flooding the log.
type Throttle struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	interval time.Duration
	last     map[string]time.Time
}

// NewThrottle creates a throttle that allows one event per key per interval.
func NewThrottle(clock clockwork.Clock, interval time.Duration) *Throttle {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Throttle{
		clock:    clock,
		interval: interval,
		last:     make(map[string]time.Time),
	}
}

// Allow reports whether an event for the given key may be logged now, and if
// so records the emission time.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if last, ok := t.last[key]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.last[key] = now
	return true
}
