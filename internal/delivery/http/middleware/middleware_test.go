package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cip-network-backend/internal/domain"
	"cip-network-backend/pkg/apperror"
	"cip-network-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var fromCtx any
	r.GET("/", func(c *gin.Context) {
		fromCtx = c.Request.Context().Value(domain.KeyRequestID)
		c.Status(http.StatusNoContent)
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, fromCtx)
	})

	t.Run("reuses a well-formed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "edge-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "edge-42", w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "bad id\twith spaces")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEqual(t, "bad id\twith spaces", w.Header().Get(RequestIDHeader))
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/invalid", func(c *gin.Context) {
		_ = c.Error(apperror.Invalid("Dati non validi", []string{"Nome: Campo obbligatorio"}, nil))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("dial tcp: secret-host:25"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invalid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Dati non validi","error":["Nome: Campo obbligatorio"]}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-host")
}

func TestSetRateLimitHeaders(t *testing.T) {
	now := time.Date(2024, 6, 23, 10, 0, 30, 0, time.UTC)

	t.Run("allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		SetRateLimitHeaders(c, ratelimit.Result{Allowed: true, Count: 2, Limit: 5, ResetAt: now.Add(50 * time.Second)}, now)

		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "2024-06-23T10:01:20Z", w.Header().Get("X-RateLimit-Reset"))
		assert.Empty(t, w.Header().Get("Retry-After"))
	})

	t.Run("rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		SetRateLimitHeaders(c, ratelimit.Result{Allowed: false, Count: 5, Limit: 5, ResetAt: now.Add(30 * time.Second)}, now)

		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "30", w.Header().Get("Retry-After"))
	})

	t.Run("retry after never below one second", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		SetRateLimitHeaders(c, ratelimit.Result{Allowed: false, Count: 5, Limit: 5, ResetAt: now}, now)

		require.Equal(t, "1", w.Header().Get("Retry-After"))
	})
}
