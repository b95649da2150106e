package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultGoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	DefaultTokenTTL      = 2 * 365 * 24 * time.Hour
)

type Config struct {
	// Database
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"connections_db"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Google identity
	GoogleClientID      string        `env:"GOOGLE_CLIENT_ID"`
	GoogleJWKSURL       string        `env:"GOOGLE_JWKS_URL" envDefault:"https://www.googleapis.com/oauth2/v3/certs"`
	GoogleVerifyTimeout time.Duration `env:"GOOGLE_VERIFY_TIMEOUT" envDefault:"10s"`

	// Session tokens
	JWTSecret   string        `env:"JWT_SECRET_KEY"`
	JWTTokenTTL time.Duration `env:"JWT_TOKEN_TTL" envDefault:"17520h"`

	// Server
	Port           string   `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:3001"`

	// Observability
	SentryDSN    string        `env:"SENTRY_DSN"`
	AppEnv       string        `env:"APP_ENV" envDefault:"development"`
	LogRetention time.Duration `env:"LOG_RETENTION" envDefault:"720h"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTTokenTTL <= 0 {
		cfg.JWTTokenTTL = DefaultTokenTTL
	}
	if cfg.GoogleJWKSURL == "" {
		cfg.GoogleJWKSURL = DefaultGoogleJWKSURL
	}
	return cfg, nil
}

// Validate reports configuration faults. They are not fatal: the endpoints
// that depend on a missing value answer with a server error until it is set.
func (c *Config) Validate() []error {
	var problems []error
	if c.GoogleClientID == "" {
		problems = append(problems, fmt.Errorf("GOOGLE_CLIENT_ID is not configured"))
	}
	if c.JWTSecret == "" {
		problems = append(problems, fmt.Errorf("JWT_SECRET_KEY is not configured"))
	}
	return problems
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// CORSOrigins joins the allowed origins in the format fiber's cors middleware expects.
func (c *Config) CORSOrigins() string {
	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return strings.Join(origins, ",")
}
