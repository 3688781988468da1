package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cip-network-backend/config"
	_ "cip-network-backend/docs" // Important for Swagger
	v1 "cip-network-backend/internal/delivery/http/v1"
	"cip-network-backend/internal/usecase"
	"cip-network-backend/pkg/email"
	"cip-network-backend/pkg/logger"
	"cip-network-backend/pkg/ratelimit"
	"cip-network-backend/pkg/redis"
	"cip-network-backend/pkg/security"
	"cip-network-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           CIP Network API
// @version         1.0.0
// @description     Crowdfunding Immobiliare a Dubai. Landing page and contact form relay.
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	zl := logger.Init(cfg.IsProduction())
	defer func() { _ = zl.Sync() }()
	logger.Log.Infow("Starting CIP Network backend", "port", cfg.Port, "mode", cfg.GinMode)

	secLog := security.NewSecurityLogger(zl, cfg.ServiceName, cfg.GinMode)
	security.SetDefault(secLog)
	defer func() { _ = secLog.Sync() }()

	validation.RegisterWithGin()

	// 3. Setup Rate Limiters
	contactLimits := ratelimit.ContactConfig()
	contactLimits.Limit = cfg.ContactRateLimit
	contactLimits.Window = time.Duration(cfg.ContactRateWindowSeconds) * time.Second

	var contactLimiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := redis.Initialize(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		cancel()
		if err != nil {
			logger.Log.Warnw("Redis unavailable, contact rate limiting uses in-memory store", "error", err)
		} else {
			defer func() { _ = redis.Close() }()
			contactLimiter = ratelimit.NewRedisLimiter(rdb, contactLimits, nil)
			logger.Log.Infow("Contact rate limiting backed by Redis")
		}
	}
	if contactLimiter == nil {
		memLimiter := ratelimit.NewMemoryLimiter(contactLimits, nil, time.Minute)
		defer memLimiter.Stop()
		contactLimiter = memLimiter
	}

	throttleCfg := ratelimit.DefaultThrottleConfig()
	throttleCfg.Rate = cfg.GlobalRateLimitRPS
	throttleCfg.Burst = cfg.GlobalRateLimitBurst
	throttle := ratelimit.NewIPThrottle(throttleCfg)
	defer throttle.Stop()

	// 4. Setup Email Dispatcher
	dispatcher := email.NewDispatcher(cfg)
	if !dispatcher.IsConfigured() {
		logger.Log.Warnw("SMTP not fully configured, contact emails will not be sent",
			"missing", dispatcher.MissingSettings())
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(contactLimiter, dispatcher)
	healthUC := usecase.NewHealthUsecase(cfg.ServiceName)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Throttle:  throttle,
		Logger:    zl,
		Config:    cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("Listen failed", "error", err)
		}
	}()
	printBanner(cfg.ServiceName, cfg.Port)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorw("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func printBanner(serviceName, port string) {
	line := "=================================================="
	fmt.Println()
	fmt.Println(line)
	fmt.Printf("%s - Server avviato!\n", serviceName)
	fmt.Println(line)
	fmt.Printf("Localhost: http://localhost:%s\n", port)
	fmt.Printf("Host IP:   http://%s:%s\n", localIP(), port)
	fmt.Println(line)
	fmt.Println()
}

// localIP returns the address of the interface used for outbound traffic.
// No packet is sent, UDP dial only selects a route.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
