package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/exchange/pkg/auth"
	"github.com/muhammadchandra19/exchange/pkg/redis"
)

// Config represents the application configuration.
type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	HTTP      HTTPConfig      `envPrefix:"HTTP_"`
	Redis     redis.Config    `envPrefix:"REDIS_"`
	JWT       auth.Config     `envPrefix:"JWT_"`
	Broadcast BroadcastConfig `envPrefix:"BROADCAST_"`
	WebSocket WebSocketConfig `envPrefix:"WS_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"event-broadcaster"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// HTTPConfig configures the HTTP and WebSocket listener.
type HTTPConfig struct {
	Addr              string        `env:"ADDR" envDefault:":3003"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
}

// BroadcastConfig sizes the event fan-out pipeline.
type BroadcastConfig struct {
	Workers   int `env:"WORKERS" envDefault:"4"`
	QueueSize int `env:"QUEUE_SIZE" envDefault:"1024"`
}

// WebSocketConfig tunes each client connection.
type WebSocketConfig struct {
	SendBuffer     int           `env:"SEND_BUFFER" envDefault:"64"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	PongTimeout    time.Duration `env:"PONG_TIMEOUT" envDefault:"60s"`
	PingInterval   time.Duration `env:"PING_INTERVAL" envDefault:"50s"`
	MaxMessageSize int64         `env:"MAX_MESSAGE_SIZE" envDefault:"4096"`
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
