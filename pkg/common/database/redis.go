package database

import (
	"context"
	"fmt"
	"time"

	"github.com/kumohax/platform/pkg/common/config"
	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedis connects to Redis when a host is configured. It returns nil when
// Redis is not configured so callers can treat the client as optional.
func NewRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisHost == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to connect to Redis")
	} else {
		logger.Log.Info("Connected to Redis")
	}

	return client
}
