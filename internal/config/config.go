package config

import (
	"os"
	"time"
)

const (
	defaultHTTPAddr  = ":8080"
	defaultDSN       = "tourstay.db"
	defaultJWTSecret = "change-me-jwt-secret"
	defaultJWTTTL    = "24h"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// RedisAddr enables the advisory availability cache when set.
	RedisAddr string

	// WebhookURL is the outbound booking-event endpoint. Empty disables
	// webhook delivery; the websocket feed is unaffected.
	WebhookURL string
}

func Load() *Config {
	ttl, err := time.ParseDuration(getenv("JWT_TTL", defaultJWTTTL))
	if err != nil {
		ttl = 24 * time.Hour
	}

	return &Config{
		HTTPAddr:    getenv("HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL: getenv("DATABASE_URL", defaultDSN),
		JWTSecret:   getenv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:      ttl,
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		WebhookURL:  os.Getenv("BOOKING_WEBHOOK_URL"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
