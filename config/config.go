package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Port        string
	GinMode     string
	ServiceName string
	SecretKey   string
	// Site
	StaticDir      string
	IndexFile      string
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For; empty means the peer address is the client
	TrustedProxies []string
	// SMTP Configuration
	SMTPServer             string
	SMTPPort               string // parsed by the email dispatcher so a bad value fails delivery, not startup
	SMTPUsername           string
	SMTPPassword           string
	RecipientEmail         string
	SMTPTimeoutSeconds     int
	SMTPInsecureSkipVerify bool
	EmailTemplateDir       string // empty = embedded template
	// Redis Configuration (optional, enables the shared contact limiter)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	ContactRateLimit         int
	ContactRateWindowSeconds int
	GlobalRateLimitRPS       float64
	GlobalRateLimitBurst     int
}

func LoadConfig() (*Config, error) {
	// Load .env file (only present locally; ignored in containers)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8002"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		ServiceName: getEnv("SERVICE_NAME", "CIP Network"),
		SecretKey:   getEnv("SECRET_KEY", ""),
		// Site
		StaticDir:      strings.TrimRight(getEnv("STATIC_DIR", "assets"), "/"),
		IndexFile:      getEnv("INDEX_FILE", "index.html"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
		// SMTP Configuration
		SMTPServer:             getEnv("SMTP_SERVER", ""),
		SMTPPort:               getEnv("SMTP_PORT", ""),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		RecipientEmail:         getEnv("RECIPIENT_EMAIL", ""),
		SMTPTimeoutSeconds:     getEnvInt("SMTP_TIMEOUT_SECONDS", 10),
		SMTPInsecureSkipVerify: getEnvBool("SMTP_INSECURE_SKIP_VERIFY", false),
		EmailTemplateDir:       getEnv("EMAIL_TEMPLATE_DIR", ""),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		ContactRateLimit:         getEnvInt("CONTACT_RATE_LIMIT", 5),           // 5 submissions
		ContactRateWindowSeconds: getEnvInt("CONTACT_RATE_WINDOW_SECONDS", 60), // per rolling minute
		GlobalRateLimitRPS:       getEnvFloat("GLOBAL_RATE_LIMIT_RPS", 20),
		GlobalRateLimitBurst:     getEnvInt("GLOBAL_RATE_LIMIT_BURST", 50),
	}

	if cfg.SecretKey == "" {
		cfg.SecretKey = "change-me-in-production-" + randomHex(32)
		log.Println("WARNING: SECRET_KEY not set. Using a random key for this process.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Contact rate limiting will use in-memory store.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
