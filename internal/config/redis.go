package config

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig locates the server shared by the catalog cache, the rate
// limiter and the access-token revocation list.  All three run without it.
type RedisConfig struct {
	// URL, when set, wins over every other field
	// (redis://[:password@]host:port/db, rediss:// for TLS).
	URL         string
	Addr        string
	Password    string
	DB          int
	TLS         bool
	PingTimeout time.Duration
}

// LoadRedisConfig reads REDIS_URL, REDIS_ADDR, REDIS_HOST with
// REDIS_PORT (both required, they override REDIS_ADDR), REDIS_PASSWORD,
// REDIS_DB, REDIS_TLS and REDIS_PING_TIMEOUT.
func LoadRedisConfig() RedisConfig {
	rc := RedisConfig{
		URL:         envStr("REDIS_URL", ""),
		Addr:        envStr("REDIS_ADDR", "localhost:6379"),
		Password:    envStr("REDIS_PASSWORD", ""),
		DB:          envInt("REDIS_DB", 0),
		TLS:         envBool("REDIS_TLS", false),
		PingTimeout: envDur("REDIS_PING_TIMEOUT", 2*time.Second),
	}
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		rc.Addr = net.JoinHostPort(host, port)
	}
	return rc
}

// Options converts the config into client options.
func (rc RedisConfig) Options() (*redis.Options, error) {
	if rc.URL != "" {
		opt, err := redis.ParseURL(rc.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return opt, nil
	}
	if rc.DB < 0 {
		return nil, fmt.Errorf("REDIS_DB must not be negative, got %d", rc.DB)
	}
	opt := &redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB}
	if rc.TLS {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt, nil
}

// Connect opens a client and pings it.  On any failure the client is
// closed and the error returned; callers fall back to in-process modes.
func (rc RedisConfig) Connect(ctx context.Context) (*redis.Client, error) {
	opt, err := rc.Options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, rc.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping %s: %w", opt.Addr, err)
	}
	return client, nil
}
