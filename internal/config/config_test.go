package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "@valdosta.edu", cfg.Domain)
	assert.Equal(t, 8, cfg.OpeningHour)
	assert.Equal(t, 16, cfg.ClosingHour)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
domain: "@example.edu"
opening_hour: 9
closing_hour: 17
store:
  backend: mysql
  prefix: rooms
mysql:
  host: db.internal
  name: scheduling
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("ROOM_CLOSING_HOUR", "18")
	t.Setenv("ROOM_STORE__PREFIX", "override")
	t.Setenv("ROOM_JWT_SECRET", "shh")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "@example.edu", cfg.Domain)
	assert.Equal(t, 9, cfg.OpeningHour)
	assert.Equal(t, 18, cfg.ClosingHour)
	assert.Equal(t, "mysql", cfg.Store.Backend)
	assert.Equal(t, "override", cfg.Store.Prefix)
	assert.Equal(t, "db.internal", cfg.MySQL.Host)
	assert.Equal(t, "3306", cfg.MySQL.Port, "unset keys keep defaults")
	assert.Equal(t, "shh", cfg.JWTSecret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Default()
	require.NoError(t, base.Validate())

	tests := map[string]func(c *Config){
		"inverted hours":  func(c *Config) { c.OpeningHour, c.ClosingHour = 17, 9 },
		"hour too large":  func(c *Config) { c.ClosingHour = 24 },
		"negative hour":   func(c *Config) { c.OpeningHour = -1 },
		"bare domain":     func(c *Config) { c.Domain = "valdosta.edu" },
		"empty domain":    func(c *Config) { c.Domain = "" },
		"unknown backend": func(c *Config) { c.Store.Backend = "etcd" },
		"mysql no host":   func(c *Config) { c.Store.Backend = "mysql"; c.MySQL.Host = "" },
		"zero ttl":        func(c *Config) { c.AccessTTLMin = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	c := LoadRateLimitConfig()
	assert.False(t, c.Enabled)
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, time.Minute, c.RefillInterval)
	assert.Equal(t, 5*time.Minute, c.TTL)
}

func TestRateLimitConfigFromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "yes")
	t.Setenv("RATE_LIMIT_CAPACITY", "25")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "3")
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "user")
	t.Setenv("RATE_LIMIT_PREFIX", "")

	c := LoadRateLimitConfig()
	assert.True(t, c.Enabled)
	assert.Equal(t, 25, c.Capacity)
	assert.Equal(t, 3, c.RefillTokens)
	assert.Equal(t, 6*time.Second, c.RefillInterval)
	assert.Equal(t, "user", c.KeyStrategy)
	assert.Equal(t, "rl", c.Prefix)
}

func TestEnvKoanf(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMITS_OTHER", "x")
	k := envKoanf("RATE_LIMIT_")
	assert.Equal(t, "2s", k.String("refill_interval"))
	assert.False(t, k.Exists("s_other"))
	assert.Equal(t, 2*time.Second, kDur(k, "refill_interval", 0))
	assert.Equal(t, 7, kInt(k, "missing", 7))
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	o := redisOptions()
	assert.Equal(t, "hunter2", o.Password)
	assert.Equal(t, "cache:6380", o.Addr)
	assert.Equal(t, 2, o.DB)
	assert.Nil(t, o.TLSConfig)

	t.Setenv("REDIS_HOST", "primary")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_TLS", "1")
	o = redisOptions()
	assert.Equal(t, "primary:6379", o.Addr)
	assert.NotNil(t, o.TLSConfig)
}
