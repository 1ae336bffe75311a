// Package config loads application configuration from an optional YAML
// file, a .env file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks the environment variables read by Load.  A double
// underscore descends into a nested section: ROOM_STORE__BACKEND sets
// store.backend.
const EnvPrefix = "ROOM_"

// Config holds all runtime configuration values.
type Config struct {
	Env          string          `koanf:"env"`            // application environment (dev/test/prod)
	Port         string          `koanf:"port"`           // HTTP port to listen on
	Domain       string          `koanf:"domain"`         // required staff email suffix
	OpeningHour  int             `koanf:"opening_hour"`   // first bookable hour
	ClosingHour  int             `koanf:"closing_hour"`   // last bookable hour, inclusive
	JWTSecret    string          `koanf:"jwt_secret"`     // secret used to sign staff tokens
	AccessTTLMin int             `koanf:"access_ttl_min"` // staff token lifetime in minutes
	Store        StoreConfig     `koanf:"store"`
	MySQL        MySQLConfig     `koanf:"mysql"`
	Audit        AuditConfig     `koanf:"audit"`
	RateLimit    RateLimitConfig `koanf:"-"`              // read from RATE_LIMIT_* variables
}

// StoreConfig selects the key-value backend of the persistence adapter.
type StoreConfig struct {
	Backend string `koanf:"backend"` // redis | mysql | memory
	Prefix  string `koanf:"prefix"`  // key namespace
}

// MySQLConfig holds the connection settings used when Store.Backend is
// "mysql".
type MySQLConfig struct {
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Name     string `koanf:"name"`
}

// AuditConfig configures the reservation event stream.  Publishing is
// disabled when URL is empty.
type AuditConfig struct {
	URL   string `koanf:"url"`
	Queue string `koanf:"queue"`
	Path  string `koanf:"path"`
}

// Default returns the configuration used for every key that is not set.
func Default() Config {
	return Config{
		Env:          envKoanf("APP_").String("env"),
		Port:         "8080",
		Domain:       "@valdosta.edu",
		OpeningHour:  8,
		ClosingHour:  16,
		AccessTTLMin: 480,
		Store:        StoreConfig{Backend: "redis", Prefix: "vsu"},
		MySQL:        MySQLConfig{User: "root", Host: "localhost", Port: "3306", Name: "rooms"},
		Audit:        AuditConfig{Queue: "reservation.events", Path: "logs/reservations.log"},
	}
}

// Load builds the configuration.  A .env file in the working directory is
// applied first if present; path, when non-empty, names a YAML file whose
// values override the defaults; ROOM_* environment variables override
// both.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	cfg.RateLimit = LoadRateLimitConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps ROOM_STORE__BACKEND to store.backend.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks mandatory fields and ranges.
func (c Config) Validate() error {
	if c.OpeningHour < 0 || c.ClosingHour > 23 {
		return fmt.Errorf("bookable hours must lie within 0..23, got %d..%d", c.OpeningHour, c.ClosingHour)
	}
	if c.OpeningHour > c.ClosingHour {
		return fmt.Errorf("opening_hour %d is after closing_hour %d", c.OpeningHour, c.ClosingHour)
	}
	if !strings.HasPrefix(c.Domain, "@") || len(c.Domain) < 2 {
		return fmt.Errorf("domain must look like @example.edu, got %q", c.Domain)
	}
	switch c.Store.Backend {
	case "redis", "memory":
	case "mysql":
		if c.MySQL.Host == "" || c.MySQL.Name == "" {
			return errors.New("mysql store needs mysql.host and mysql.name")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.AccessTTLMin <= 0 {
		return fmt.Errorf("access_ttl_min must be positive, got %d", c.AccessTTLMin)
	}
	return nil
}
