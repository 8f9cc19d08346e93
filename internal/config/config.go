package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	Environment  string
	DatabaseURL  string
	AuthURL      string // External identity provider base URL
	JWKSURL      string // Constructed from AuthURL + /.well-known/jwks.json
	CORSOrigins  string
	TablePrefix  string
	QueryTimeout time.Duration // Per-request database budget
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	authURL := getEnv("AUTH_URL", "")

	// Construct JWKS URL from the identity provider base URL
	jwksURL := getEnv("AUTH_JWKS_URL", "")
	if jwksURL == "" && authURL != "" {
		jwksURL = authURL + "/.well-known/jwks.json"
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  env,
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		AuthURL:      authURL,
		JWKSURL:      jwksURL,
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:  getTablePrefix(env),
		QueryTimeout: getDuration("QUERY_TIMEOUT", 10*time.Second),
	}
}

// getTablePrefix returns the table prefix based on environment.
// Production uses the bare table names from the migrations; other
// environments can point at prefixed copies of the schema.
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "test":
		return "test_"
	default:
		return ""
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
