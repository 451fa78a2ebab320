package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/exchange/pkg/auth"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/pkg/redis"
)

// Config represents the application configuration.
type Config struct {
	App        AppConfig         `envPrefix:"APP_"`
	HTTP       HTTPConfig        `envPrefix:"HTTP_"`
	PostgreSQL postgresql.Config `envPrefix:"POSTGRES_"`
	Redis      redis.Config      `envPrefix:"REDIS_"`
	JWT        auth.Config       `envPrefix:"JWT_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"order-gateway"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// HTTPConfig configures the REST listener.
type HTTPConfig struct {
	Addr              string        `env:"ADDR" envDefault:":3001"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
