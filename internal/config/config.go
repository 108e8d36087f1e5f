// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              int
	DBPath            string
	LogLevel          string
	CurrencyPrecision int32
	MaxParticipants   int
	MetricsEnabled    bool
}

// Load reads the given .env files (default ".env") when present, then builds a
// Config from the environment. Variables already set take precedence over
// the files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		DBPath:   getEnv("DB_PATH", "./data/xpense.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}
	precision, err := getInt("CURRENCY_PRECISION", 2)
	if err != nil {
		return nil, err
	}
	if precision < 0 || precision > 8 {
		return nil, fmt.Errorf("CURRENCY_PRECISION must be between 0 and 8, got %d", precision)
	}
	cfg.CurrencyPrecision = int32(precision)
	if cfg.MaxParticipants, err = getInt("MAX_PARTICIPANTS", 5000); err != nil {
		return nil, err
	}
	if cfg.MaxParticipants < 0 {
		return nil, fmt.Errorf("MAX_PARTICIPANTS must not be negative, got %d", cfg.MaxParticipants)
	}
	if cfg.MetricsEnabled, err = getBool("METRICS_ENABLED", true); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}
