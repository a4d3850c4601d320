package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 3000, cfg.App.Port)
	assert.Equal(t, "auth", cfg.Mongo.Database)
	assert.Equal(t, 5, cfg.Security.OTPTTLMinutes)
	assert.Equal(t, 5, cfg.Security.OTPRateLimitPerPhonePerHour)
	assert.Equal(t, 12, cfg.Security.PasswordHashCost)

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.ZitadelConfigured())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("OTP_TTL_MINUTES", "10")
	t.Setenv("ZITADEL_DOMAIN", "auth.example.com")
	t.Setenv("ZITADEL_PAT", "pat-token")

	cfg := Load()

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 10, cfg.Security.OTPTTLMinutes)
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.ZitadelConfigured())
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, 3000, cfg.App.Port)
}

func TestZitadelConfigured_KeyPathAlternative(t *testing.T) {
	t.Setenv("ZITADEL_DOMAIN", "localhost")
	t.Setenv("ZITADEL_KEY_PATH", "/tmp/key.json")

	cfg := Load()

	assert.True(t, cfg.ZitadelConfigured())
}
