package middleware

import (
	"time"

	"cip-network-backend/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:8002",
	"http://127.0.0.1:8002",
	"http://localhost:3000",
}

// CORSMiddleware allows the origins listed in ALLOWED_ORIGINS.
// Outside release mode the local development origins are allowed as well.
// Same-origin requests from the landing page need no CORS headers.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	if !cfg.IsProduction() {
		for _, o := range devOrigins {
			allowed[o] = true
		}
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin]
		},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:        12 * time.Hour,
	})
}
