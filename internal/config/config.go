package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds process-wide settings read once at startup.
type Config struct {
	Addr        string
	Env         string
	DatabaseURL string // postgres:// URL or SQLite file path
	BaseURL     string // public origin used in verification and reset links

	JWTSecret  string
	SessionTTL time.Duration
	ResetTTL   time.Duration
	BcryptCost int

	ResendKey string
	EmailFrom string
	ReplyTo   string

	CSRFKey            []byte
	TrustedOrigins     []string
	RateLimitPerSecond int

	LogLevel      slog.Level
	SlowQueryMs   int
	SlowRequestMs int

	// Development only: a verified admin created at startup.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads .env (if present) and FITPRO_* variables.
// PRE: none
// POST: Returns a fully defaulted Config, or an error for malformed or missing production values
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Addr:               envOrDefault("FITPRO_ADDR", ":5006"),
		Env:                envOrDefault("FITPRO_ENV", EnvDevelopment),
		DatabaseURL:        envOrDefault("FITPRO_DATABASE_URL", "fitpro.db"),
		BaseURL:            strings.TrimRight(envOrDefault("FITPRO_BASE_URL", "http://localhost:5006"), "/"),
		JWTSecret:          os.Getenv("FITPRO_JWT_SECRET"),
		SessionTTL:         time.Hour,
		ResetTTL:           time.Hour,
		BcryptCost:         12,
		ResendKey:          os.Getenv("FITPRO_RESEND_KEY"),
		EmailFrom:          envOrDefault("FITPRO_EMAIL_FROM", "FitPro Manager <noreply@fitpro.local>"),
		ReplyTo:            os.Getenv("FITPRO_REPLY_TO"),
		TrustedOrigins:     splitList(envOrDefault("FITPRO_TRUSTED_ORIGINS", "localhost:5006,127.0.0.1:5006")),
		RateLimitPerSecond: 10,
		LogLevel:           slog.LevelInfo,
		SlowQueryMs:        50,
		SlowRequestMs:      200,
		SeedAdminEmail:     os.Getenv("FITPRO_SEED_ADMIN_EMAIL"),
		SeedAdminPassword:  os.Getenv("FITPRO_SEED_ADMIN_PASSWORD"),
	}

	var err error
	if cfg.SessionTTL, err = durationEnv("FITPRO_SESSION_TTL", cfg.SessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.ResetTTL, err = durationEnv("FITPRO_RESET_TTL", cfg.ResetTTL); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = intEnv("FITPRO_BCRYPT_COST", cfg.BcryptCost); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerSecond, err = intEnv("FITPRO_RATE_LIMIT", cfg.RateLimitPerSecond); err != nil {
		return Config{}, err
	}
	if cfg.SlowQueryMs, err = intEnv("FITPRO_SLOW_QUERY_MS", cfg.SlowQueryMs); err != nil {
		return Config{}, err
	}
	if cfg.SlowRequestMs, err = intEnv("FITPRO_SLOW_REQUEST_MS", cfg.SlowRequestMs); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("FITPRO_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("FITPRO_LOG_LEVEL: %w", err)
		}
	}

	if keyHex := os.Getenv("FITPRO_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return Config{}, errors.New("FITPRO_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		cfg.CSRFKey = key
	}

	if cfg.IsProduction() {
		if cfg.JWTSecret == "" {
			return Config{}, errors.New("FITPRO_JWT_SECRET is required in production")
		}
		if cfg.CSRFKey == nil {
			return Config{}, errors.New("FITPRO_CSRF_KEY is required in production")
		}
		cfg.SeedAdminEmail, cfg.SeedAdminPassword = "", ""
	}

	return cfg, nil
}

// IsProduction reports whether FITPRO_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
