package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	appbook "github.com/SuwethaV/bookreview/internal/application/book"
	"github.com/SuwethaV/bookreview/internal/application/event"
	"github.com/SuwethaV/bookreview/internal/infrastructure/config"
	"github.com/SuwethaV/bookreview/internal/infrastructure/persistence/redis"
	"github.com/SuwethaV/bookreview/pkg/jwt"
	"github.com/SuwethaV/bookreview/pkg/mq"
)

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideRedisClient(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { client.Close() }, nil
}

// provideBookCache returns the Redis detail cache, or a no-op when cache.enabled is false.
func provideBookCache(cfg *config.Config, client *goredis.Client) appbook.BookCache {
	if !cfg.Cache.Enabled {
		return appbook.NoopCache{}
	}
	return redis.NewBookCache(client, cfg.Cache.DetailTTL)
}

// provideEventPublisher dials RabbitMQ when mq.enabled is set. Events are
// optional, so a disabled broker yields a no-op publisher.
func provideEventPublisher(cfg *config.Config) (event.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return event.Noop{}, func() {}, nil
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {
		if err := p.Close(); err != nil {
			logrus.WithError(err).Warn("close message publisher")
		}
	}, nil
}

func provideHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
