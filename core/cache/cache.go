package cache

import (
	"context"
	"fmt"
	"time"

	"coach-portal-api/core/constants"
	"coach-portal-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the redis-backed application cache used for token blacklisting
// and login-attempt throttling.
type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	IncrementLoginAttempt(ctx context.Context, key string) error
	IsLoginBlocked(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis cache initialized", "host", cfg.Host, "port", cfg.Port, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string) error {
	key := constants.RedisKeyTokenBlacklist + token
	// Blacklist entries only need to outlive the longest-lived token.
	return c.client.Set(ctx, key, "1", 7*24*time.Hour).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	key := constants.RedisKeyTokenBlacklist + token
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) IncrementLoginAttempt(ctx context.Context, key string) error {
	fullKey := constants.RedisKeyLoginAttempt + key
	n, err := c.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return c.client.Expire(ctx, fullKey, constants.BlockDuration).Err()
	}
	return nil
}

func (c *redisCache) IsLoginBlocked(ctx context.Context, key string) (bool, error) {
	fullKey := constants.RedisKeyLoginAttempt + key
	n, err := c.client.Get(ctx, fullKey).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= constants.MaxLoginAttempts, nil
}

func (c *redisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, constants.RedisKeyLoginAttempt+key, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, constants.RedisKeyLoginAttempt+key).Err()
}
