package config

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for the report rate limiter, or nil when
// no REDIS_ADDRESS is configured.
func ConnectRedis(ctx context.Context, s Settings) (*redis.Client, error) {
	if s.RedisAddr == "" {
		log.Println("REDIS_ADDRESS not set, report rate limiting disabled")
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
		DB:       0,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Connected to Redis")
	return rdb, nil
}
