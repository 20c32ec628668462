package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port         string `envconfig:"PORT" default:"5000"`
	AppEnv       string `envconfig:"APP_ENV" default:"development"`
	MongoURI     string `envconfig:"MONGODB_URI"`
	DatabaseName string `envconfig:"DATABASE_NAME" default:"storefront"`
	RedisAddr    string `envconfig:"REDIS_ADDR"`
	SeedProducts bool   `envconfig:"SEED_PRODUCTS" default:"false"`
}

// Load reads configuration from a .env file when present and from the
// process environment. A missing MONGODB_URI is a startup failure; the
// service must not come up without a store to serve from.
func Load() (*Config, error) {
	// A missing .env file is fine outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in production posture,
// which switches log format and suppresses error detail in responses.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}
