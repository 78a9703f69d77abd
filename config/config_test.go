package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 1500, cfg.Payments.MinAmount)
	assert.Equal(t, 30, cfg.Payments.IntentTTL)
	assert.Equal(t, 3, cfg.Webhooks.MaxRetries)
	assert.False(t, cfg.Telegram.Enabled)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,https://shifty.example")
	t.Setenv("PAYMENT_MIN_AMOUNT", "2000")
	t.Setenv("WEBHOOK_PROCESSOR_COUNT", "4")
	t.Setenv("TELEGRAM_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://shifty.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2000, cfg.Payments.MinAmount)
	assert.Equal(t, 4, cfg.Webhooks.ProcessorCount)
	assert.True(t, cfg.Telegram.Enabled)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Setenv("PAYMENT_MIN_AMOUNT", "lots")

	_, err := LoadConfig()
	assert.Error(t, err)
}
