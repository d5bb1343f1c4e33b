package config

import (
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Env            string
	BackendURL     string
	BackendTimeout time.Duration
	CookieSecure   bool
	SessionTTL     time.Duration
	LoginRateRPS   float64
	LoginRateBurst int
	LogLevel       slog.Level
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:5000/api"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 10*time.Second),
		CookieSecure:   getBool("COOKIE_SECURE", true),
		SessionTTL:     getDuration("SESSION_TTL", 7*24*time.Hour),
		LoginRateRPS:   getFloat("LOGIN_RATE_RPS", 5),
		LoginRateBurst: getInt("LOGIN_RATE_BURST", 10),
		LogLevel:       getLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// Validate rejects settings that would leak the session token in production.
func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Host == "" {
		return errors.New("BACKEND_URL must be an absolute URL")
	}
	if c.Env != "production" {
		return nil
	}
	if u.Scheme != "https" {
		return errors.New("BACKEND_URL must use https in production environment")
	}
	if !c.CookieSecure {
		return errors.New("COOKIE_SECURE cannot be disabled in production environment")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration", "key", key, "value", v)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring invalid bool", "key", key, "value", v)
		return fallback
	}
	return b
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("ignoring invalid number", "key", key, "value", v)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid number", "key", key, "value", v)
		return fallback
	}
	return n
}

func getLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
		slog.Warn("ignoring invalid log level", "key", key, "value", v)
		return fallback
	}
	return level
}
