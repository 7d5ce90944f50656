// Package rediscache adapts Redis to the SessionCache port. Every
// operation is best-effort: backend failures degrade to cache misses and
// the durable session store remains the source of truth.
package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/internal/domain/repository"
	"github.com/leadpilot/auth-service/pkg/helpers"
)

type SessionCache struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

func NewSessionCache(rdb *redis.Client, logger *logrus.Logger) *SessionCache {
	return &SessionCache{rdb: rdb, logger: logger}
}

func (c *SessionCache) Get(ctx context.Context, key string) (*entity.CachedSession, bool) {
	var entry entity.CachedSession
	found, err := helpers.RedisGetJSON(ctx, c.rdb, key, &entry)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("redis get failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &entry, true
}

func (c *SessionCache) Set(ctx context.Context, key string, entry *entity.CachedSession, ttl time.Duration) error {
	return helpers.RedisSetJSON(ctx, c.rdb, key, entry, ttl)
}

func (c *SessionCache) Delete(ctx context.Context, keys ...string) error {
	return helpers.RedisDel(ctx, c.rdb, keys...)
}

var _ repository.SessionCache = (*SessionCache)(nil)
