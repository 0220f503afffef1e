package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/SuwethaV/bookreview/internal/infrastructure/config"
)

const defaultPingTimeout = 5 * time.Second

// NewClient connects to the Redis holding sessions, the token blacklist and
// the book detail cache. The first ping is bounded by redis.dial_timeout.
func NewClient(cfg *config.Config) (*redis.Client, error) {
	rc := cfg.Redis
	client := redis.NewClient(&redis.Options{
		Addr:         rc.Addr(),
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
		DialTimeout:  rc.DialTimeout,
		ReadTimeout:  rc.ReadTimeout,
		WriteTimeout: rc.WriteTimeout,
	})

	timeout := rc.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", rc.Addr(), err)
	}

	logrus.WithFields(logrus.Fields{"addr": rc.Addr(), "db": rc.DB}).Info("redis connected")
	return client, nil
}
