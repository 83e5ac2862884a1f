// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // LEDGER_TIMEZONE must resolve on hosts without zoneinfo
)

// Config holds every runtime setting of the ledger server.
type Config struct {
	Port   int
	DBPath string

	JWTSecret string
	TokenTTL  time.Duration

	MatchWindow   time.Duration
	NearMissLimit int

	// Location is the ledger's accounting timezone; period boundaries are
	// midnights in this location.
	Location *time.Location

	LogLevel  string
	LogFormat string

	// Dev allows an empty JWT secret, replaced by a fixed development secret.
	Dev bool
}

const devSecret = "dev-secret-change-me"

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv.
func LoadFrom(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return fallback
	}

	cfg := &Config{
		DBPath:    get("DB_PATH", "./data/ledger.db"),
		JWTSecret: getenv("JWT_SECRET"),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.Dev, err = strconv.ParseBool(get("DEV_MODE", "false")); err != nil {
		return nil, fmt.Errorf("invalid DEV_MODE: %w", err)
	}
	if cfg.Port, err = strconv.Atoi(get("PORT", "8080")); err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", getenv("PORT"))
	}
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "24h")); err != nil || cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", getenv("TOKEN_TTL"))
	}
	if cfg.MatchWindow, err = time.ParseDuration(get("MATCH_WINDOW", "60s")); err != nil || cfg.MatchWindow < 0 {
		return nil, fmt.Errorf("invalid MATCH_WINDOW %q", getenv("MATCH_WINDOW"))
	}
	if cfg.NearMissLimit, err = strconv.Atoi(get("NEAR_MISS_LIMIT", "10")); err != nil || cfg.NearMissLimit < 0 {
		return nil, fmt.Errorf("invalid NEAR_MISS_LIMIT %q", getenv("NEAR_MISS_LIMIT"))
	}
	if cfg.Location, err = time.LoadLocation(get("LEDGER_TIMEZONE", "UTC")); err != nil {
		return nil, fmt.Errorf("invalid LEDGER_TIMEZONE: %w", err)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want text or json)", cfg.LogFormat)
	}

	if cfg.JWTSecret == "" {
		if !cfg.Dev {
			return nil, errors.New("JWT_SECRET is required (set DEV_MODE=true for a development secret)")
		}
		cfg.JWTSecret = devSecret
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
