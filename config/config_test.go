package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("CONTACT_RATE_LIMIT", "not-a-number")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("ALLOWED_ORIGINS", "https://cipnetwork.it, ,https://www.cipnetwork.it")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.ContactRateLimit, "invalid ints fall back to the default")
	assert.Equal(t, 60, cfg.ContactRateWindowSeconds)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.Equal(t, []string{"https://cipnetwork.it", "https://www.cipnetwork.it"}, cfg.AllowedOrigins)
	assert.True(t, strings.HasPrefix(cfg.SecretKey, "change-me-in-production-"))
}

func TestLoadConfig_RandomSecretPerLoad(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	first, err := LoadConfig()
	require.NoError(t, err)
	second, err := LoadConfig()
	require.NoError(t, err)

	assert.NotEqual(t, first.SecretKey, second.SecretKey)
}

func TestLoadConfig_ExplicitSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("GIN_MODE", "release")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.True(t, cfg.IsProduction())
}
