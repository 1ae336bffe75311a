package config

// Redis backs the persistence adapter and the booking rate limiter.  The
// client parameters come from REDIS_* environment variables, following the
// conventions shared with the rest of our services.

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client using environment variables.
// Supported variables are:
//
//	REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//	REDIS_ADDR – host:port shorthand (host/port take precedence when both are set)
//	REDIS_PASSWORD – optional password
//	REDIS_DB – database number (default 0)
//	REDIS_TLS – enable TLS when "true" or "1"
//
// Unlike a cache, the reservation store cannot run without Redis, so a
// failed ping is returned as an error.
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(redisOptions())
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func redisOptions() *redis.Options {
	k := envKoanf("REDIS_")
	addr := kStr(k, "addr", "localhost:6379")
	if host, port := k.String("host"), k.String("port"); host != "" && port != "" {
		addr = host + ":" + port
	}
	var tlsConf *tls.Config
	if kBool(k, "tls", false) {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &redis.Options{
		Addr:      addr,
		Password:  k.String("password"),
		DB:        kInt(k, "db", 0),
		TLSConfig: tlsConf,
	}
}
