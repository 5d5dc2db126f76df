package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	LogLevel          string
	DBDSN             string
	DBMaxConns        int
	DBMinConns        int
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Verification codes and rate limiting. Redis is optional; without it
	// codes and counters live in process memory.
	RedisURL       string
	OTPTTL         time.Duration
	OTPBypassCode  string
	OTPRateLimit   int
	OTPRateWindow  time.Duration
	SMSWebhookURL  string
	SMSWebhookAuth string
	SMTPHost       string
	SMTPPort       string
	SMTPFrom       string

	AdminAPIKey    string
	MediaDir       string
	MediaMaxBytes  int64
	OTelEnabled    bool
	OTelEndpoint   string
	OTelSampleRate float64
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := &Config{}
	var err error

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	if cfg.DBMaxConns, err = getEnvAsInt("DB_MAX_CONNS", 0); err != nil {
		return nil, err
	}
	if cfg.DBMinConns, err = getEnvAsInt("DB_MIN_CONNS", 0); err != nil {
		return nil, err
	}
	if cfg.DBMinConns > cfg.DBMaxConns && cfg.DBMaxConns > 0 {
		return nil, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", cfg.DBMinConns, cfg.DBMaxConns)
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	// Bcrypt cost for password hashing (default: 12)
	if cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12); err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.OTPTTL, err = getEnvAsDuration("OTP_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	cfg.OTPBypassCode = strings.TrimSpace(getEnv("OTP_BYPASS_CODE", ""))
	if cfg.IsProduction && cfg.OTPBypassCode != "" {
		return nil, fmt.Errorf("OTP_BYPASS_CODE must not be set in production")
	}
	if cfg.OTPRateLimit, err = getEnvAsInt("OTP_RATE_LIMIT", 5); err != nil {
		return nil, fmt.Errorf("invalid OTP_RATE_LIMIT: %w", err)
	}
	if cfg.OTPRateWindow, err = getEnvAsDuration("OTP_RATE_WINDOW", 10*time.Minute); err != nil {
		return nil, err
	}

	cfg.SMSWebhookURL = getEnv("SMS_WEBHOOK_URL", "")
	cfg.SMSWebhookAuth = getEnv("SMS_WEBHOOK_TOKEN", "")
	cfg.SMTPHost = getEnv("SMTP_HOST", "")
	cfg.SMTPPort = getEnv("SMTP_PORT", "1025")
	cfg.SMTPFrom = getEnv("SMTP_FROM", "no-reply@medislot.local")

	cfg.AdminAPIKey = getEnv("ADMIN_API_KEY", "")

	cfg.MediaDir = getEnv("MEDIA_DIR", "./data/media")
	maxMB, err := getEnvAsInt("MEDIA_MAX_MB", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_MAX_MB: %w", err)
	}
	cfg.MediaMaxBytes = int64(maxMB) << 20

	if cfg.OTelEnabled, err = getEnvAsBool("OTEL_ENABLED", false); err != nil {
		return nil, err
	}
	cfg.OTelEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	cfg.OTelSampleRate = 1
	if v := getEnv("OTEL_SAMPLING_RATIO", ""); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return nil, fmt.Errorf("invalid OTEL_SAMPLING_RATIO %q", v)
		}
		cfg.OTelSampleRate = f
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses values such as "15m" or "1h".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}
