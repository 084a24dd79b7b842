package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("DASHBOARD_CACHE_TTL", "5m")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.True(t, cfg.GRPCEnabled)
	assert.Equal(t, "dev-token", cfg.APIToken)
	assert.Equal(t, 5*time.Minute, cfg.DashboardCacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.MarketCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.CacheWarmInterval)
	assert.Equal(t, []string{"yahoo", "brapi"}, cfg.QuoteProviders)
	assert.Equal(t, 5.0, cfg.QuoteRateLimit)
	assert.False(t, cfg.SeedSampleData)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_RequiresDashboardTTL(t *testing.T) {
	t.Setenv("DASHBOARD_CACHE_TTL", "")

	_, err := LoadFromEnv()

	assert.Error(t, err)
}

func TestLoadFromEnv_NormalizesProviders(t *testing.T) {
	t.Setenv("DASHBOARD_CACHE_TTL", "1m")
	t.Setenv("QUOTE_PROVIDERS", " BRAPI , yahoo")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, []string{"brapi", "yahoo"}, cfg.QuoteProviders)
}

func TestValidate(t *testing.T) {
	t.Setenv("DASHBOARD_CACHE_TTL", "1m")
	valid := func(t *testing.T) *Config {
		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "zero dashboard ttl", mutate: func(c *Config) { c.DashboardCacheTTL = 0 }, wantErr: "DASHBOARD_CACHE_TTL"},
		{name: "negative market ttl", mutate: func(c *Config) { c.MarketCacheTTL = -time.Second }, wantErr: "MARKET_CACHE_TTL"},
		{name: "unknown provider", mutate: func(c *Config) { c.QuoteProviders = []string{"bloomberg"} }, wantErr: "unknown quote provider"},
		{name: "no providers", mutate: func(c *Config) { c.QuoteProviders = nil }, wantErr: "QUOTE_PROVIDERS"},
		{name: "empty token", mutate: func(c *Config) { c.APIToken = " " }, wantErr: "API_TOKEN"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "invalid log level"},
		{name: "bad port", mutate: func(c *Config) { c.HTTPPort = 70000 }, wantErr: "HTTP_PORT"},
		{name: "negative warm interval", mutate: func(c *Config) { c.CacheWarmInterval = -time.Minute }, wantErr: "CACHE_WARM_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: 5433, DBUser: "u", DBPassword: "p", DBName: "advisory"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=advisory sslmode=disable", cfg.DSN())

	cfg.DBConnStr = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.DSN())
}
