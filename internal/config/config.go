package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	DatabaseURL       string
	JWTSecret         string
	Port              string
	Env               string
	LogLevel          string
	LogFile           string
	FCMServiceAccount string
	UploadDir         string
	CORSOrigins       string
	KeepAliveURL      string
	KeepAliveInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", "forge.db"),
		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("APP_ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           getEnv("LOG_FILE", ""),
		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		KeepAliveURL:      getEnv("KEEPALIVE_URL", ""),
		KeepAliveInterval: 14 * time.Minute,
	}

	var errs []string
	if raw := os.Getenv("KEEPALIVE_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("KEEPALIVE_INTERVAL %q is not a positive duration", raw))
		} else {
			cfg.KeepAliveInterval = d
		}
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() []string {
	var errs []string

	if c.Env != "development" && c.Env != "production" && c.Env != "test" {
		errs = append(errs, fmt.Sprintf("APP_ENV must be development, production or test, got %q", c.Env))
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		errs = append(errs, "JWT_SECRET must be set in production")
	}
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL must not be empty")
	}

	return errs
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
