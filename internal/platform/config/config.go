// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config maps environment variables onto the two dvfmap schemas:
[Config] for cmd/api (no prefix) and [ClientConfig] for cmd/dvfmap
(DVFMAP_ prefix). Both are parsed once at startup with caarlos0/env and then
passed down by value or pointer; nothing here is global.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Server Configuration Schema

// Config holds all runtime configuration for the dvfmap API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL        string        `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns         int32         `env:"DB_MAX_CONNS"         envDefault:"20"`
	DBStatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"10s"`

	// MigrationPath overrides the migrations embedded in the binary.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis): token denylist and query cache
	RedisURL      string `env:"REDIS_URL,required,notEmpty"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Token signing (HS256 shared secret)
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"dvfmap"`
	TokenTTL  time.Duration `env:"TOKEN_TTL"  envDefault:"24h"`

	// BcryptCost is the password work factor (4..31).
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Property-sale dataset
	DVFCacheTTL     time.Duration `env:"DVF_CACHE_TTL"     envDefault:"2m"`
	DVFBoundsMargin float64       `env:"DVF_BOUNDS_MARGIN" envDefault:"0.2"`

	// Cross-Origin Resource Sharing
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.DBMaxConns < 1 {
		return nil, fmt.Errorf("config: DB_MAX_CONNS must be >= 1, got %d", cfg.DBMaxConns)
	}

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("config: TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}

	switch cfg.Environment {
	case "development", "staging", "production":
	default:
		return nil, fmt.Errorf("config: ENVIRONMENT must be development, staging or production, got %q", cfg.Environment)
	}

	if cfg.DVFBoundsMargin < 0 {
		return nil, fmt.Errorf("config: DVF_BOUNDS_MARGIN must be >= 0, got %v", cfg.DVFBoundsMargin)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the explicit CORS allow-list.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// # Client Configuration Schema

// ClientConfig holds the settings of the dvfmap client engine.
type ClientConfig struct {
	AuthURL   string        `env:"AUTH_URL"   envDefault:"http://localhost:8080/api/auth"`
	APIURL    string        `env:"API_URL"    envDefault:"http://localhost:8080/api/v1"`
	StatePath string        `env:"STATE_PATH" envDefault:"./dvfmap.db"`
	Debounce  time.Duration `env:"DEBOUNCE"   envDefault:"300ms"`

	// HTTPTimeout of zero leaves requests bounded only by the transport.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// LoadClient parses DVFMAP_-prefixed environment variables into a [ClientConfig].
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "DVFMAP_"}); err != nil {
		return nil, fmt.Errorf("config: failed to parse client environment: %w", err)
	}

	if cfg.Debounce < 0 {
		return nil, fmt.Errorf("config: DVFMAP_DEBOUNCE must be >= 0, got %s", cfg.Debounce)
	}

	return cfg, nil
}
