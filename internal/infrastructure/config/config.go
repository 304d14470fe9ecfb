package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,           default=4000"`
	Env           string `env:"ENV,            default=development"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`
	SessionSecret string `env:"SESSION_SECRET, default=task4-dev-secret"`
	ClientOrigin  string `env:"CLIENT_ORIGIN,  default=http://localhost:5173"`
	PublicAPIURL  string `env:"PUBLIC_API_URL, default=http://localhost:4000"`

	Database DatabaseConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
}

type DatabaseConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/task4"`
	SSL bool   `env:"DATABASE_SSL, default=false"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST"`
	Port int    `env:"SMTP_PORT, default=587"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	From string `env:"SMTP_FROM, default=no-reply@task4.local"`
}

// Configured reports whether an SMTP transport has been supplied. Without one
// the service falls back to logging verification links.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.Pass != ""
}

// IsProduction reports whether the service runs with production cookie policy
// (Secure, SameSite=None for cross-origin deployments).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
