package ratelimit

import (
	"context"
	"sync"
	"time"
)

var _ Limiter = (*MemoryLimiter)(nil)

// MemoryLimiter is a sliding window log kept in process memory.
// Only accepted events are recorded, so rejected attempts do not extend a lockout.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	config  Config
	now     func() time.Time
	done    chan struct{}
	stop    sync.Once
}

// NewMemoryLimiter creates the limiter and starts a sweeper that drops keys
// whose events all left the window. Call Stop to end the sweeper.
func NewMemoryLimiter(cfg Config, now func() time.Time, sweepInterval time.Duration) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	ml := &MemoryLimiter{
		entries: make(map[string][]time.Time),
		config:  cfg,
		now:     now,
		done:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go ml.sweep(sweepInterval)
	}
	return ml
}

// Allow records an event for key if the window has room.
func (ml *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := ml.now()

	ml.mu.Lock()
	defer ml.mu.Unlock()

	events := prune(ml.entries[key], now, ml.config.Window)
	allowed := len(events) < ml.config.Limit
	if allowed {
		events = append(events, now)
	}

	if len(events) == 0 {
		delete(ml.entries, key)
	} else {
		ml.entries[key] = events
	}

	resetAt := now.Add(ml.config.Window)
	if len(events) > 0 {
		resetAt = events[0].Add(ml.config.Window)
	}

	return Result{
		Allowed: allowed,
		Count:   len(events),
		Limit:   ml.config.Limit,
		ResetAt: resetAt,
	}, nil
}

// Len returns the number of tracked keys (for testing/metrics)
func (ml *MemoryLimiter) Len() int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	return len(ml.entries)
}

// Stop ends the sweeper goroutine. Safe to call more than once.
func (ml *MemoryLimiter) Stop() {
	ml.stop.Do(func() { close(ml.done) })
}

func (ml *MemoryLimiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ml.done:
			return
		case <-ticker.C:
			ml.evictStale()
		}
	}
}

// evictStale removes keys with no event inside the window
func (ml *MemoryLimiter) evictStale() {
	now := ml.now()

	ml.mu.Lock()
	defer ml.mu.Unlock()

	for key, events := range ml.entries {
		if live := prune(events, now, ml.config.Window); len(live) == 0 {
			delete(ml.entries, key)
		} else {
			ml.entries[key] = live
		}
	}
}

// prune drops events older than the window. events is sorted ascending.
func prune(events []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	i := 0
	for i < len(events) && !events[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return events
	}
	return append(events[:0:0], events[i:]...)
}
