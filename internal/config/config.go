package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Known quote provider names
const (
	ProviderYahoo = "yahoo"
	ProviderBrapi = "brapi"
)

// Config holds the server configuration.
type Config struct {
	// Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"9090"`
	GRPCEnabled bool   `env:"GRPC_ENABLED" envDefault:"true"`
	APIToken    string `env:"API_TOKEN" envDefault:"dev-token"`

	// Database
	DBConnStr      string `env:"DB_CONN_STR"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         int    `env:"DB_PORT" envDefault:"5432"`
	DBUser         string `env:"DB_USER" envDefault:"postgres"`
	DBPassword     string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"advisory"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBAutoMigrate  bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	SeedSampleData bool   `env:"SEED_SAMPLE_DATA" envDefault:"false"`

	// Redis
	RedisURL      string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Caching and jobs
	DashboardCacheTTL   time.Duration `env:"DASHBOARD_CACHE_TTL,required,notEmpty"`
	MarketCacheTTL      time.Duration `env:"MARKET_CACHE_TTL" envDefault:"15m"`
	CacheWarmInterval   time.Duration `env:"CACHE_WARM_INTERVAL" envDefault:"0s"`
	HealthCheckInterval time.Duration `env:"HEALTH_CHECK_INTERVAL" envDefault:"30s"`

	// Market data
	QuoteProviders []string      `env:"QUOTE_PROVIDERS" envDefault:"yahoo,brapi" envSeparator:","`
	QuoteTimeout   time.Duration `env:"QUOTE_TIMEOUT" envDefault:"10s"`
	QuoteRateLimit float64       `env:"QUOTE_RATE_LIMIT" envDefault:"5"`
	BrapiToken     string        `env:"BRAPI_TOKEN"`
	YahooBaseURL   string        `env:"YAHOO_BASE_URL"`
	BrapiBaseURL   string        `env:"BRAPI_BASE_URL"`

	// Observability
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	for i, name := range cfg.QuoteProviders {
		cfg.QuoteProviders[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort))
	}
	if c.GRPCEnabled && (c.GRPCPort < 1 || c.GRPCPort > 65535) {
		errs = append(errs, fmt.Errorf("invalid GRPC_PORT: %d", c.GRPCPort))
	}
	if strings.TrimSpace(c.APIToken) == "" {
		errs = append(errs, errors.New("API_TOKEN cannot be empty"))
	}
	if c.DBMaxOpenConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1, got %d", c.DBMaxOpenConns))
	}

	if c.DashboardCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("DASHBOARD_CACHE_TTL must be positive, got %s", c.DashboardCacheTTL))
	}
	if c.MarketCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("MARKET_CACHE_TTL must be positive, got %s", c.MarketCacheTTL))
	}
	if c.CacheWarmInterval < 0 {
		errs = append(errs, fmt.Errorf("CACHE_WARM_INTERVAL cannot be negative, got %s", c.CacheWarmInterval))
	}
	if c.HealthCheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("HEALTH_CHECK_INTERVAL must be positive, got %s", c.HealthCheckInterval))
	}

	if len(c.QuoteProviders) == 0 {
		errs = append(errs, errors.New("QUOTE_PROVIDERS cannot be empty"))
	}
	for _, name := range c.QuoteProviders {
		if name != ProviderYahoo && name != ProviderBrapi {
			errs = append(errs, fmt.Errorf("unknown quote provider: %q", name))
		}
	}
	if c.QuoteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("QUOTE_TIMEOUT must be positive, got %s", c.QuoteTimeout))
	}
	if c.QuoteRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("QUOTE_RATE_LIMIT must be positive, got %v", c.QuoteRateLimit))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.LogLevel))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log format: %s", c.LogFormat))
	}

	return errors.Join(errs...)
}

// DSN returns DB_CONN_STR, or a connection string built from the DB_* parts
func (c *Config) DSN() string {
	if c.DBConnStr != "" {
		return c.DBConnStr
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}
