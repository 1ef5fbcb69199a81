// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Codec) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Inkwell API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) — volatile password-reset tokens
	RedisURL string `env:"REDIS_URL,required"`

	// Signing secrets for the two token roles. The process refuses to start
	// when either is absent — issuing unsigned or weakly-signed credentials
	// is never an acceptable fallback.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required"`

	// Token lifetimes
	AccessTokenTTL         time.Duration `env:"ACCESS_TOKEN_TTL"          envDefault:"15m"`
	RefreshTokenTTLSeconds int           `env:"REFRESH_TOKEN_TTL_SECONDS" envDefault:"604800"`
	ResetTokenTTLMinutes   int           `env:"RESET_TOKEN_TTL_MINUTES"   envDefault:"30"`

	// Password hashing
	BcryptCost        int `env:"BCRYPT_COST"         envDefault:"10"`
	HashMaxConcurrent int `env:"HASH_MAX_CONCURRENT" envDefault:"8"`

	// Password-reset delivery (Mailgun). Optional: when unset, delivery falls
	// back to the development log sender.
	MailgunDomain    string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey    string `env:"MAILGUN_API_KEY"`
	MailFromAddress  string `env:"MAIL_FROM_ADDRESS"    envDefault:"no-reply@inkwell.blog"`
	ResetLinkBaseURL string `env:"RESET_LINK_BASE_URL"  envDefault:"https://inkwell.blog/reset-password"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, fmt.Errorf("config: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	return cfg, nil
}

// RefreshTokenTTL returns the refresh-token lifetime as a [time.Duration].
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTLSeconds) * time.Second
}

// ResetTokenTTL returns the password-reset token lifetime as a [time.Duration].
func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.ResetTokenTTLMinutes) * time.Minute
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
