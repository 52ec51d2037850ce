package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string `env:"PORT, default=3000"`
	JWTSecret   string `env:"JWT_SECRET"`
	ListPerPage int    `env:"LIST_PER_PAGE, default=10"`

	DB      DBConfig
	Factory FactoryConfig
}

type DBConfig struct {
	Host     string `env:"DB_HOST, default=localhost"`
	Port     string `env:"DB_PORT, default=5432"`
	User     string `env:"DB_USER, default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME, default=pizza"`
	SSLMode  string `env:"DB_SSL_MODE, default=disable"`
}

// FactoryConfig points at the external order fulfillment service.
type FactoryConfig struct {
	URL    string `env:"FACTORY_URL"`
	APIKey string `env:"FACTORY_API_KEY"`
}

func Load() (*Config, error) {
	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret key not set")
	}
	return &cfg, nil
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
