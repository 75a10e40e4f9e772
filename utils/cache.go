package utils

import (
	"context"
	"time"

	"carenow/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheClient is the Redis client used for short-lived caches such as match
// results. The reminder queue uses a separate logical DB via asynq.
var CacheClient *redis.Client

// InitCache connects the cache client and verifies it with a ping. Redis is
// a hard dependency at startup: matching degrades without it, but the
// reminder queue shares the same instance.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := CacheClient.Ping(ctx).Err(); err != nil {
		GetLogger().Fatal("redis connect failed", zap.String("addr", config.AppConfig.RedisAddr), zap.Error(err))
	}
	GetLogger().Info("connected to Redis", zap.String("addr", config.AppConfig.RedisAddr))
}

// GetCacheClient returns the cache client, initializing it on first use.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}
