package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"push-dispatch-backend/internal/broker"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Broker   BrokerConfig   `yaml:"broker"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// BrokerConfig holds the message broker connection and topic configuration.
type BrokerConfig struct {
	URL                   string        `yaml:"url"`
	ConnectTimeoutSeconds int           `yaml:"connect_timeout_seconds"`
	PublishTimeoutSeconds int           `yaml:"publish_timeout_seconds"`
	Topics                broker.Topics `yaml:"topics"`
}

// ConnectTimeout returns the broker connect timeout as a duration.
func (c BrokerConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// PublishTimeout returns the broker publish timeout as a duration.
func (c BrokerConfig) PublishTimeout() time.Duration {
	return time.Duration(c.PublishTimeoutSeconds) * time.Second
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the configuration from the given path and applies defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}

	if cfg.Broker.URL == "" {
		cfg.Broker.URL = "nats://127.0.0.1:4222"
	}
	if cfg.Broker.ConnectTimeoutSeconds <= 0 {
		cfg.Broker.ConnectTimeoutSeconds = 5
	}
	if cfg.Broker.PublishTimeoutSeconds <= 0 {
		cfg.Broker.PublishTimeoutSeconds = 5
	}
	if cfg.Broker.Topics.PushDispatch == "" {
		cfg.Broker.Topics.PushDispatch = "push.dispatch"
	}
	if cfg.Broker.Topics.DeliveryEvents == "" {
		cfg.Broker.Topics.DeliveryEvents = "push.delivery"
	}
	if cfg.Broker.Topics.UserEvents == "" {
		cfg.Broker.Topics.UserEvents = "push.user-events"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}
