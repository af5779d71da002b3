package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	Storage Storage

	// OrderIDPrefix is the leading segment of generated order ids.
	OrderIDPrefix string `env:"ORDER_ID_PREFIX" envDefault:"BH"`
	// DeliveryFee is added to every order subtotal, in whole currency units.
	DeliveryFee int64 `env:"DELIVERY_FEE" envDefault:"30"`
}

type Storage struct {
	Backend   string `env:"STORAGE_BACKEND" envDefault:"memory"`
	Namespace string `env:"STORAGE_NAMESPACE" envDefault:"brewhome"`
	Path      string `env:"STORAGE_PATH" envDefault:"brewhome.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Namespace) == "" {
		return fmt.Errorf("storage namespace is required")
	}
	if strings.TrimSpace(c.OrderIDPrefix) == "" {
		return fmt.Errorf("order id prefix is required")
	}
	if c.DeliveryFee < 0 {
		return fmt.Errorf("delivery fee cannot be negative, got %d", c.DeliveryFee)
	}
	return nil
}
