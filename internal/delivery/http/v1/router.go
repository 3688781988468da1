package v1

import (
	"time"

	"cip-network-backend/config"
	"cip-network-backend/internal/delivery/http/middleware"
	"cip-network-backend/internal/domain"
	"cip-network-backend/pkg/metrics"
	"cip-network-backend/pkg/ratelimit"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  domain.HealthUsecase
	Throttle  *ratelimit.IPThrottle // optional, applies to /api only
	Logger    *zap.Logger
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		log.Warn("Invalid TRUSTED_PROXIES, forwarded headers are ignored", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config)) // CORS must be first!
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	NewSiteHandler(r, deps.Config.StaticDir, deps.Config.IndexFile)
	NewHealthHandler(r, deps.HealthUC)

	// The landing page, static files and /health are never throttled.
	api := r.Group("/api")
	if deps.Throttle != nil {
		api.Use(middleware.ThrottleMiddleware(deps.Throttle))
	}
	NewContactHandler(api, deps.ContactUC)

	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
