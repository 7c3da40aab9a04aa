package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "CORS_ORIGINS", "DB_DRIVER", "JWT_EXPIRY_HOURS", "TIMEZONE", "ADMIN_EMAILS", "REMINDER_CRON"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Empty(t, cfg.AdminEmails)
	assert.Equal(t, "*/15 * * * *", cfg.ReminderCron)
	assert.False(t, cfg.TwilioEnabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://ink.example.com, http://localhost:3000 ,")
	t.Setenv("ADMIN_EMAILS", "studio@example.com")
	t.Setenv("JWT_EXPIRY_HOURS", "48")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TWILIO_WHATSAPP_NUMBER", "+14155238886")

	cfg := Load()
	assert.Equal(t, []string{"https://ink.example.com", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"studio@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 48*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.TwilioEnabled())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:       "development",
			DBDriver:  "sqlite",
			JWTExpiry: time.Hour,
			Timezone:  "UTC",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"production without secret", func(c *Config) { c.Env = "production" }},
		{"postgres without url", func(c *Config) { c.DBDriver = "postgres" }},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"zero expiry", func(c *Config) { c.JWTExpiry = 0 }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := valid()
	cfg.Env = "production"
	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, (&Config{Timezone: "nowhere"}).Location())
	assert.Equal(t, "America/Sao_Paulo", (&Config{Timezone: "America/Sao_Paulo"}).Location().String())
}

func TestSQLiteDSN(t *testing.T) {
	dsn := SQLiteDSN("data/test.db")
	assert.Contains(t, dsn, "data/test.db?")
	assert.Contains(t, dsn, "foreign_keys(1)")
}
