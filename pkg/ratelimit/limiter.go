package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more event for key fits in its window.
// Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Config holds sliding window limiter configuration
type Config struct {
	// Limit is the number of accepted events per window
	Limit int
	// Window is the trailing time span events are counted in
	Window time.Duration
	// KeyPrefix namespaces keys in shared stores
	KeyPrefix string
}

// ContactConfig returns the limits of the contact form: 5 submissions per rolling minute.
func ContactConfig() Config {
	return Config{
		Limit:     5,
		Window:    time.Minute,
		KeyPrefix: "rl:contact:",
	}
}

// Result is the outcome of a single Allow call.
type Result struct {
	Allowed bool
	// Count is the number of accepted events currently inside the window, this one included when allowed.
	Count int
	Limit int
	// ResetAt is when the oldest counted event leaves the window.
	ResetAt time.Time
}

// Remaining returns how many more events would be accepted right now.
func (r Result) Remaining() int {
	if rem := r.Limit - r.Count; rem > 0 {
		return rem
	}
	return 0
}

// RetryAfter returns the wait until a slot frees up, at least one second.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetAt.Sub(now)
	if d < time.Second {
		return time.Second
	}
	return d
}
