package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ThrottleConfig holds token bucket configuration for the global throttle
type ThrottleConfig struct {
	// Rate is the number of requests allowed per second
	Rate float64
	// Burst is the maximum number of requests allowed in a burst
	Burst int
	// CleanupInterval is how often to clean up stale entries
	CleanupInterval time.Duration
	// MaxAge is how long to keep an entry after last access
	MaxAge time.Duration
}

// DefaultThrottleConfig returns the site-wide defaults: 20 req/s per IP, burst of 50.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		Rate:            20,
		Burst:           50,
		CleanupInterval: time.Minute,
		MaxAge:          5 * time.Minute,
	}
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// IPThrottle keeps one token bucket per client address with automatic cleanup.
type IPThrottle struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  ThrottleConfig
	done    chan struct{}
	stop    sync.Once
}

// NewIPThrottle creates the throttle and starts its cleanup goroutine.
func NewIPThrottle(cfg ThrottleConfig) *IPThrottle {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 5 * time.Minute
	}

	t := &IPThrottle{
		buckets: make(map[string]*bucket),
		config:  cfg,
		done:    make(chan struct{}),
	}
	go t.cleanup()
	return t
}

// Allow checks if a request from the given IP should be allowed
func (t *IPThrottle) Allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, exists := t.buckets[ip]
	if !exists {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(t.config.Rate), t.config.Burst)}
		t.buckets[ip] = b
	}
	b.lastAccess = time.Now()

	return b.limiter.Allow()
}

// Len returns the current number of tracked IPs
func (t *IPThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buckets)
}

// Stop stops the cleanup goroutine
func (t *IPThrottle) Stop() {
	t.stop.Do(func() { close(t.done) })
}

func (t *IPThrottle) cleanup() {
	ticker := time.NewTicker(t.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.removeStale(time.Now())
		}
	}
}

func (t *IPThrottle) removeStale(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for ip, b := range t.buckets {
		if now.Sub(b.lastAccess) > t.config.MaxAge {
			delete(t.buckets, ip)
		}
	}
}
