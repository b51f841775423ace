package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration.
// Values come from the YAML file named by CONFIG_PATH, when set, and are
// overridden by environment variables.
type Config struct {
	Env    string       `yaml:"env" env:"ENV" env-default:"dev"`
	API    APIConfig    `yaml:"api"`
	Web    WebConfig    `yaml:"web"`
	List   ListConfig   `yaml:"list"`
	Cache  CacheConfig  `yaml:"cache"`
	Queue  QueueConfig  `yaml:"queue"`
	Worker WorkerConfig `yaml:"worker"`
	Notify NotifyConfig `yaml:"notify"`
}

// APIConfig points at the customer REST API
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
}

// WebConfig holds the console HTTP server configuration
type WebConfig struct {
	Port int `yaml:"port" env:"WEB_PORT" env-default:"3000"`
}

// ListConfig tunes the customer list
type ListConfig struct {
	SearchDelay time.Duration `yaml:"search_delay" env:"LIST_SEARCH_DELAY" env-default:"300ms"`
	FetchCap    int           `yaml:"fetch_cap" env:"LIST_FETCH_CAP" env-default:"1000"`
}

// CacheConfig holds the customer page cache configuration (Redis)
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"CACHE_ENABLED" env-default:"true"`
	TTL     time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"30s"`
}

// QueueConfig holds export queue configuration (Redis)
type QueueConfig struct {
	RedisURL  string `yaml:"redis_url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	QueueName string `yaml:"queue_name" env:"QUEUE_NAME" env-default:"customer_exports"`
}

// WorkerConfig holds export worker configuration
type WorkerConfig struct {
	Concurrency   int    `yaml:"concurrency" env:"WORKER_CONCURRENCY" env-default:"2"`
	MaxRetryCount int    `yaml:"max_retry_count" env:"MAX_RETRY_COUNT" env-default:"3"`
	ExportDir     string `yaml:"export_dir" env:"EXPORT_DIR" env-default:"exports"`
}

// NotifyConfig holds toast notification settings
type NotifyConfig struct {
	Duration time.Duration `yaml:"duration" env:"NOTIFY_DURATION" env-default:"5s"`
}

// Load reads configuration from CONFIG_PATH (optional) and the environment
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr returns the listen address of the console server
func (w WebConfig) Addr() string {
	return fmt.Sprintf(":%d", w.Port)
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid WEB_PORT: %d", c.Web.Port)
	}
	if c.List.FetchCap < 1 {
		return fmt.Errorf("invalid LIST_FETCH_CAP: %d", c.List.FetchCap)
	}
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("invalid WORKER_CONCURRENCY: %d", c.Worker.Concurrency)
	}
	return nil
}

// Usage describes every environment variable the config reads
func Usage() string {
	var cfg Config
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return desc
}
