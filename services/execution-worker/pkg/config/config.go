package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/pkg/redis"
)

// Config represents the application configuration.
type Config struct {
	App        AppConfig         `envPrefix:"APP_"`
	PostgreSQL postgresql.Config `envPrefix:"POSTGRES_"`
	Redis      redis.Config      `envPrefix:"REDIS_"`
	Exchange   ExchangeConfig    `envPrefix:"BINANCE_"`
	Worker     WorkerConfig      `envPrefix:"WORKER_"`
	Archive    ArchiveConfig     `envPrefix:"ARCHIVE_"`
	Metrics    MetricsConfig     `envPrefix:"METRICS_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"execution-worker"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// ExchangeConfig points the worker at the Binance REST API.
type ExchangeConfig struct {
	BaseURL string        `env:"API_URL" envDefault:"https://testnet.binance.vision/api"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// WorkerConfig bounds command handling.
type WorkerConfig struct {
	MaxInFlight int           `env:"MAX_IN_FLIGHT" envDefault:"32"`
	StopTimeout time.Duration `env:"STOP_TIMEOUT" envDefault:"20s"`
}

// ArchiveConfig enables copying every published event to Kafka.
type ArchiveConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"order-events"`
	// BatchTimeout bounds how long a single event waits for a batch to fill.
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"10ms"`
}

// MetricsConfig configures the Prometheus listener.
type MetricsConfig struct {
	Addr string `env:"ADDR" envDefault:":9102"`
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
