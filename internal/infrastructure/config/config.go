package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// devSecretKey signs session cookies when SECRET_KEY is unset in development.
const devSecretKey = "dev-secret-key-change-in-production"

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	SecretKey string `env:"SECRET_KEY"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	HTTP    HTTPConfig
	Audit   AuditConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=synapsecare"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SessionConfig struct {
	TTL          time.Duration `env:"SESSION_TTL,     default=24h"`
	RememberTTL  time.Duration `env:"REMEMBER_ME_TTL, default=744h"`
	CookieName   string        `env:"SESSION_COOKIE,  default=session"`
	CookieSecure bool          `env:"COOKIE_SECURE,   default=false"`
}

type HTTPConfig struct {
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:5173"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.SecretKey == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("config: SECRET_KEY is required outside development")
		}
		cfg.SecretKey = devSecretKey
	}
	if cfg.Session.TTL <= 0 || cfg.Session.RememberTTL <= 0 {
		return nil, errors.New("config: session lifetimes must be positive")
	}
	return &cfg, nil
}
