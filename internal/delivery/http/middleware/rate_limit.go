package middleware

import (
	"net/http"
	"strconv"
	"time"

	"cip-network-backend/internal/delivery/http/response"
	"cip-network-backend/pkg/metrics"
	"cip-network-backend/pkg/ratelimit"
	"cip-network-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// RateLimitMessage is sent with every 429 response
const RateLimitMessage = "Rate limit exceeded. Please try again later."

// ThrottleMiddleware applies the per-IP token bucket to every request.
func ThrottleMiddleware(throttle *ratelimit.IPThrottle) gin.HandlerFunc {
	return func(c *gin.Context) {
		if throttle.Allow(c.ClientIP()) {
			c.Next()
			return
		}

		metrics.RateLimitRejections.WithLabelValues("global").Inc()
		LogRateLimitTriggered(c, security.EventThrottled)

		c.Header("Retry-After", "1")
		response.Error(c, http.StatusTooManyRequests, RateLimitMessage, nil)
		c.Abort()
	}
}

// SetRateLimitHeaders writes the X-RateLimit-* headers for a limiter decision,
// plus Retry-After when the request was rejected.
func SetRateLimitHeaders(c *gin.Context, res ratelimit.Result, now time.Time) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining()))
	c.Header("X-RateLimit-Reset", res.ResetAt.UTC().Format(time.RFC3339))

	if !res.Allowed {
		retryAfter := int(res.RetryAfter(now).Round(time.Second).Seconds())
		c.Header("Retry-After", strconv.Itoa(retryAfter))
	}
}

// LogRateLimitTriggered logs when rate limiting is triggered
func LogRateLimitTriggered(c *gin.Context, event security.EventType) {
	security.DefaultLogger().LogRateLimitTriggered(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		response.RequestID(c),
		c.Request.URL.Path,
		event,
	)
}
