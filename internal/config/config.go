// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all configuration values for the server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DBPath is the sqlite database file. Defaults to "centro.db";
	// ":memory:" gives an ephemeral database.
	DBPath string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// SessionTTL is how long a login session stays valid. Defaults to 720h
	// (30 days). Set CENTRO_SESSION_TTL to any Go duration string.
	SessionTTL time.Duration
}

// Load reads configuration from environment variables and returns a Config.
func Load() (Config, error) {
	cfg := Config{
		Port:     getEnv("CENTRO_PORT", "8080"),
		DBPath:   getEnv("CENTRO_DB_PATH", "centro.db"),
		LogLevel: getEnv("CENTRO_LOG_LEVEL", "info"),
	}

	ttl := getEnv("CENTRO_SESSION_TTL", "720h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return Config{}, fmt.Errorf("parse CENTRO_SESSION_TTL %q: %w", ttl, err)
	}
	cfg.SessionTTL = d

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
