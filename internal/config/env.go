package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Env holds all process configuration, populated from environment variables.
type Env struct {
	AppAddr string `env:"APP_ADDR" envDefault:":8080"`
	GinMode string `env:"GIN_MODE" envDefault:""`

	// Database (MySQL)
	DBUser string `env:"DB_USER" envDefault:"root"`
	DBPass string `env:"DB_PASS" envDefault:""`
	DBHost string `env:"DB_HOST" envDefault:"127.0.0.1:3306"`
	DBName string `env:"DB_NAME" envDefault:"finbase"`

	// Auth
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Cache (Redis), optional; contract-state reads skip caching when unset.
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Blockchain RPC node
	ChainRPCURL  string        `env:"CHAIN_RPC_URL" envDefault:"http://localhost:20332"`
	ChainTimeout time.Duration `env:"CHAIN_TIMEOUT" envDefault:"15s"`

	// MPC wallet provider
	MPCBaseURL string `env:"MPC_BASE_URL" envDefault:""`
	MPCAPIKey  string `env:"MPC_API_KEY" envDefault:""`

	// Comma-separated list of allowed CORS origins.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`
}

// LoadEnv parses the process environment into Env.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DSN builds the MySQL connection string the repositories expect
// (parseTime so DATETIME columns scan into time.Time).
func (e Env) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser, e.DBPass, e.DBHost, e.DBName)
}

// CORSOrigins splits the configured origin list, dropping blanks.
func (e Env) CORSOrigins() []string {
	if strings.TrimSpace(e.CORSAllowedOrigins) == "" {
		return nil
	}
	out := []string{}
	for _, o := range strings.Split(e.CORSAllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
