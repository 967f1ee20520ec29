package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Auth        AuthConfig
	Session     SessionConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Logging     LoggingConfig
	Environment string
}

type ServerConfig struct {
	Host string
	Port int
}

type StoreConfig struct {
	// Path is the SQLite database file; created on first open.
	Path string
}

type AuthConfig struct {
	// RealmFile points at the identity realm config (YAML). When set it
	// overrides JWTSecret/JWTExpiry below.
	RealmFile string
	JWTSecret string
	JWTExpiry time.Duration

	// Bootstrap credentials for the local login endpoint.
	Username string
	Password string
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

type RateLimitConfig struct {
	// Requests per Window per client key. Zero disables limiting.
	Requests          int
	Window            time.Duration
	TrustedProxyCIDRs []string
}

type CORSConfig struct {
	AllowAllOrigins bool
	AllowedOrigins  []string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 3000),
		},
		Store: StoreConfig{
			Path: getEnv("STORE_PATH", "./registre.sqlite"),
		},
		Auth: AuthConfig{
			RealmFile: getEnv("REALM_FILE", ""),
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
			Username:  getEnv("AUTH_USERNAME", ""),
			Password:  getEnv("AUTH_PASSWORD", ""),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "registre_session"),
			TTL:        time.Duration(getEnvInt("SESSION_TTL_HOURS", 12)) * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Requests:          getEnvInt("RATE_LIMIT_REQUESTS", 100),
			Window:            time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
			TrustedProxyCIDRs: getEnvList("RATE_LIMIT_TRUSTED_PROXIES"),
		},
		CORS:        loadCORS(),
		Logging:     LoggingConfig{Level: getEnv("LOG_LEVEL", "info"), Format: getEnv("LOG_FORMAT", "json")},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.Store.Path == "" {
		return Config{}, fmt.Errorf("STORE_PATH is required")
	}
	if cfg.Auth.RealmFile == "" && cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("either REALM_FILE or JWT_SECRET is required")
	}
	if cfg.RateLimit.Window <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_WINDOW_MINUTES must be positive")
	}
	return cfg, nil
}

func loadCORS() CORSConfig {
	origins := getEnvList("CORS_ALLOWED_ORIGINS")
	return CORSConfig{
		AllowAllOrigins: len(origins) == 0,
		AllowedOrigins:  origins,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
