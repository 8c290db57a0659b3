package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Token store backends.
const (
	TokenStoreFile     = "file"
	TokenStoreMemory   = "memory"
	TokenStorePostgres = "postgres"
)

// Config is read once at startup and treated as immutable.
type Config struct {
	// Backend API
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	// Credential persistence
	TokenStore  string `env:"TOKEN_STORE" envDefault:"file"`
	TokenKey    string `env:"TOKEN_KEY" envDefault:"tumaini_auth_token"`
	TokenFile   string `env:"TOKEN_FILE" envDefault:".tumaini/session.json"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Shell
	ListenAddr       string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:3000"`
	AllowedOrigin    string `env:"CORS_ALLOWED_ORIGIN"`
	LoginPath        string `env:"LOGIN_PATH" envDefault:"/login"`
	UnauthorizedPath string `env:"UNAUTHORIZED_PATH" envDefault:"/unauthorized"`

	// Logging
	LogFile  string `env:"LOG_FILE" envDefault:"./logs/app.log"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found – relying on env vars")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	switch c.TokenStore {
	case TokenStoreFile:
		if c.TokenFile == "" {
			return fmt.Errorf("TOKEN_FILE is required when TOKEN_STORE=%s", TokenStoreFile)
		}
	case TokenStoreMemory:
	case TokenStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when TOKEN_STORE=%s", TokenStorePostgres)
		}
	default:
		return fmt.Errorf("unknown TOKEN_STORE %q", c.TokenStore)
	}
	if c.TokenKey == "" {
		return fmt.Errorf("TOKEN_KEY must not be empty")
	}
	return nil
}
