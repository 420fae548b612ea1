package config

import (
	"os"
	"strconv"
	"time"

	"focusflow/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort          string
	AppBaseURL       string
	DatabaseURL      string
	DatabaseMaxConns int
	JWTSecret        string
	LogLevel         string
	LogJSON          bool

	// Redis (rate limiting + webhook idempotency); empty addr disables both
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Payment processor
	PaymentAPIKey        string
	PaymentAPIBase       string
	PaymentWebhookSecret string

	// API limits
	APIRateLimit  int
	APIRateWindow time.Duration

	// Background downgrade sweep for expired subscriptions
	ExpirySweepInterval time.Duration
}

// Load reads configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	paymentKey := os.Getenv("PAYMENT_API_KEY")
	if paymentKey == "" {
		logger.Fatal("PAYMENT_API_KEY is not set")
	}

	return &Config{
		AppPort:          envOr("APP_PORT", "8080"),
		AppBaseURL:       envOr("APP_BASE_URL", "http://localhost:3000"),
		DatabaseURL:      dbURL,
		DatabaseMaxConns: envInt("DATABASE_MAX_CONNS", 10),
		JWTSecret:        jwtSecret,
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogJSON:          os.Getenv("LOG_JSON") == "true",

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		PaymentAPIKey:        paymentKey,
		PaymentAPIBase:       envOr("PAYMENT_API_BASE", "https://api.stripe.com/v1"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),

		APIRateLimit:  envInt("API_RATE_LIMIT", 60),
		APIRateWindow: time.Duration(envInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,

		ExpirySweepInterval: time.Duration(envInt("EXPIRY_SWEEP_MINUTES", 60)) * time.Minute,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
