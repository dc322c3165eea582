package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	LockBackendAdvisory = "advisory"
	LockBackendRedis    = "redis"
	LockBackendLocal    = "local"
)

type Config struct {
	App      App      `yaml:"app"`
	GRPC     GRPC     `yaml:"grpc"`
	Database DBConfig `yaml:"database"`
	Lock     Lock     `yaml:"lock"`
	Redis    Redis    `yaml:"redis"`
	Engine   Engine   `yaml:"engine"`
}

type App struct {
	Env      string `yaml:"env" env:"ENV" env-default:"development"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

type GRPC struct {
	Addr string `yaml:"addr" env:"GRPC_ADDR" env-default:":50051"`
	// Лимит запросов в секунду на одного клиента; 0 — без ограничения.
	RateLimitRPS   float64 `yaml:"rate_limit_rps" env:"GRPC_RATE_LIMIT_RPS" env-default:"50"`
	RateLimitBurst int     `yaml:"rate_limit_burst" env:"GRPC_RATE_LIMIT_BURST" env-default:"100"`
}

// Lock — блокировка партиции (ресурс, дата) на время изменяющей операции.
type Lock struct {
	Backend string        `yaml:"backend" env:"LOCK_BACKEND" env-default:"advisory"`
	Timeout time.Duration `yaml:"timeout" env:"LOCK_TIMEOUT" env-default:"5s"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:""`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Engine struct {
	MaxBulkDays int `yaml:"max_bulk_days" env:"ENGINE_MAX_BULK_DAYS" env-default:"366"`
}

// Load читает YAML-файл (если он есть) и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
			return cfg, cfg.Validate()
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment variables: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if err := c.Database.validate(); err != nil {
		return err
	}

	switch c.Lock.Backend {
	case LockBackendAdvisory:
		if c.Database.Driver != DriverPostgres {
			return fmt.Errorf("invalid lock config: advisory locks require the postgres driver")
		}
	case LockBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("invalid lock config: redis backend requires REDIS_ADDR")
		}
	case LockBackendLocal:
	default:
		return fmt.Errorf("invalid lock config: unknown backend %q", c.Lock.Backend)
	}

	if c.Lock.Timeout <= 0 {
		return fmt.Errorf("invalid lock config: timeout must be positive")
	}
	if c.Engine.MaxBulkDays <= 0 {
		return fmt.Errorf("invalid engine config: max_bulk_days must be positive")
	}
	return nil
}
