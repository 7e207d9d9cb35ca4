// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config maps environment variables into a typed [Config].

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

A local `.env` file is honoured when present so that `go run ./cmd/api`
works without exporting variables by hand. Real environment variables
always win over the file.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the PoetPiece API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store for refresh sessions (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// RS256 key pair for access tokens
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// AllowedOriginSuffix is the CORS origin suffix accepted outside development.
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"poetpiece.app"`

	// Catalogue behaviour
	PoemsPerPage int `env:"POEMS_PER_PAGE" envDefault:"6"`
	MaxPoets     int `env:"MAX_POETS"      envDefault:"0"`

	// Retry guard for failed mutating requests
	RetryGuardRetention     time.Duration `env:"RETRY_GUARD_RETENTION"      envDefault:"1h"`
	RetryGuardSweepInterval time.Duration `env:"RETRY_GUARD_SWEEP_INTERVAL" envDefault:"1h"`

	// NotifyTimeout bounds a single background notification write.
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is [Load] with explicit dotenv paths. Missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	for _, path := range paths {
		// godotenv.Load never overrides variables that are already set.
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.PoemsPerPage < 1 {
		return fmt.Errorf("config: POEMS_PER_PAGE must be positive, got %d", c.PoemsPerPage)
	}
	if c.MaxPoets < 0 {
		return fmt.Errorf("config: MAX_POETS must not be negative, got %d", c.MaxPoets)
	}
	if c.RetryGuardRetention <= 0 || c.RetryGuardSweepInterval <= 0 {
		return errors.New("config: retry guard durations must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix implements middleware.AppConfig.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}
