package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// RateLimitConfig controls the Redis token bucket guarding booking
// submissions.  Each key starts with Capacity tokens and regains
// RefillTokens every RefillInterval.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  Defaults allow a
// burst of 10 submissions per client and one more every 6 seconds.
func LoadRateLimitConfig() RateLimitConfig {
	k := envKoanf("RATE_LIMIT_")
	c := RateLimitConfig{
		Enabled:        kBool(k, "enabled", true),
		Capacity:       kInt(k, "capacity", 10),
		RefillTokens:   kInt(k, "refill_tokens", 1),
		RefillInterval: kDur(k, "refill_interval", 6*time.Second),
		TTL:            kDur(k, "ttl", 10*time.Minute),
		KeyStrategy:    kStr(k, "key_strategy", "ip_route"),
		Prefix:         kStr(k, "prefix", "rl"),
	}
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}

// envKoanf loads every variable starting with prefix, keyed by the
// lower-cased remainder: RATE_LIMIT_REFILL_TOKENS becomes refill_tokens.
func envKoanf(prefix string) *koanf.Koanf {
	k := koanf.New(".")
	// the env provider reads os.Environ and cannot fail
	_ = k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, prefix))
	}), nil)
	return k
}

func kStr(k *koanf.Koanf, key, d string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return d
}

func kBool(k *koanf.Koanf, key string, d bool) bool {
	switch strings.ToLower(k.String(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func kInt(k *koanf.Koanf, key string, d int) int {
	if n, err := strconv.Atoi(k.String(key)); err == nil {
		return n
	}
	return d
}

func kDur(k *koanf.Koanf, key string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(k.String(key)); err == nil {
		return dur
	}
	return d
}
