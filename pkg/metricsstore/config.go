// Package metricsstore persists PromptMetrics to PostgreSQL via pgx,
// applying embedded golang-migrate migrations on startup.
package metricsstore

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds database configuration for the metrics store.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// LoadConfigFromEnv loads metrics-store database configuration from
// environment variables with production-ready defaults.
func LoadConfigFromEnv() (Config, error) {
	port, err := strconv.Atoi(getEnvOrDefault("METRICS_DB_PORT", "5432"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid METRICS_DB_PORT: %w", err)
	}

	maxConns, _ := strconv.Atoi(getEnvOrDefault("METRICS_DB_MAX_CONNS", "20"))
	minConns, _ := strconv.Atoi(getEnvOrDefault("METRICS_DB_MIN_CONNS", "2"))

	maxLifetime, err := time.ParseDuration(getEnvOrDefault("METRICS_DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid METRICS_DB_CONN_MAX_LIFETIME: %w", err)
	}
	maxIdleTime, err := time.ParseDuration(getEnvOrDefault("METRICS_DB_CONN_MAX_IDLE_TIME", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid METRICS_DB_CONN_MAX_IDLE_TIME: %w", err)
	}

	cfg := Config{
		Host:            getEnvOrDefault("METRICS_DB_HOST", "localhost"),
		Port:            port,
		User:            getEnvOrDefault("METRICS_DB_USER", "promptimprove"),
		Password:        os.Getenv("METRICS_DB_PASSWORD"),
		Database:        getEnvOrDefault("METRICS_DB_NAME", "promptimprove"),
		SSLMode:         getEnvOrDefault("METRICS_DB_SSLMODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: maxLifetime,
		MaxConnIdleTime: maxIdleTime,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.Password == "" {
		return fmt.Errorf("METRICS_DB_PASSWORD is required")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("METRICS_DB_MIN_CONNS (%d) cannot exceed METRICS_DB_MAX_CONNS (%d)", c.MinConns, c.MaxConns)
	}
	if c.MaxConns < 1 {
		return fmt.Errorf("METRICS_DB_MAX_CONNS must be at least 1")
	}
	return nil
}

func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
