package config

import (
	"context"
	"sync"
	"time"

	"travelagency/internal/logger"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// ConnectRedis returns the shared client, or nil when REDIS_URL is unset or unreachable.
// Redis is optional: callers fall back to in-process behaviour without it.
func ConnectRedis(url string) *redis.Client {
	redisOnce.Do(func() {
		if url == "" {
			return
		}
		opt, err := redis.ParseURL(url)
		if err != nil {
			logger.WarnLogger.Warnf("invalid REDIS_URL: %v", err)
			return
		}
		client := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.WarnLogger.Warnf("redis unreachable, continuing without it: %v", err)
			_ = client.Close()
			return
		}
		redisClient = client
		logger.InfoLogger.Info("connected to Redis")
	})
	return redisClient
}

func CloseRedis() {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.WarnLogger.Warnf("redis close: %v", err)
		}
	}
}
