package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPThrottle_Burst(t *testing.T) {
	th := NewIPThrottle(ThrottleConfig{Rate: 0.001, Burst: 3})
	defer th.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, th.Allow("10.0.0.1"))
	}
	assert.False(t, th.Allow("10.0.0.1"))
	assert.True(t, th.Allow("10.0.0.2"), "buckets are per address")
}

func TestIPThrottle_RemoveStale(t *testing.T) {
	th := NewIPThrottle(ThrottleConfig{Rate: 1, Burst: 1, MaxAge: time.Minute})
	defer th.Stop()

	th.Allow("10.0.0.1")
	assert.Equal(t, 1, th.Len())

	th.removeStale(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, th.Len())
}
