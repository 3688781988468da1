// Package ratelimit provides the admission control used by the public endpoints:
// a per-key sliding window limiter (in-memory or Redis backed) for contact
// submissions and a token-bucket throttle applied to every request.
package ratelimit
