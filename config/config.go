package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal images
)

type Config struct {
	// Server
	Port          string
	Env           string
	CORSOrigins   []string
	PublicBaseURL string
	UploadDir     string

	// Database
	DBDriver   string
	DBURL      string
	SQLitePath string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Studio
	Timezone    string
	AdminEmails []string

	// Integrations
	RedisURL             string
	GoogleClientID       string
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	ReminderCron         string
	SentryDSN            string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("APP_ENV", "development"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBURL:      getEnv("DB_URL", ""),
		SQLitePath: getEnv("SQLITE_PATH", "data/inkstudio.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,

		Timezone:    getEnv("TIMEZONE", "America/Sao_Paulo"),
		AdminEmails: splitList(getEnv("ADMIN_EMAILS", "")),

		RedisURL:             getEnv("REDIS_URL", ""),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		ReminderCron:         getEnv("REMINDER_CRON", "*/15 * * * *"),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
	}
}

// Validate checks the settings main cannot run without. JWT_SECRET may only be
// left empty outside production.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.IsProduction() {
		return errors.New("JWT_SECRET not set")
	}
	switch c.DBDriver {
	case "postgres":
		if c.DBURL == "" {
			return errors.New("DB_URL not set")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTExpiry <= 0 {
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TwilioEnabled reports whether real WhatsApp delivery is configured.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppNumber != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
