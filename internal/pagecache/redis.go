package pagecache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const clearBatch = 100

// DefaultRedisPrefix - префикс ключей кеша страниц, если не задан другой.
const DefaultRedisPrefix = "yatube:page"

// RedisCache хранит страницы в Redis под общим префиксом, чтобы Clear
// не трогал чужие ключи.
type RedisCache struct {
	redisClient *redis.Client
	prefix      string
}

func NewRedisCache(redisClient *redis.Client, prefix string) *RedisCache {
	prefix = strings.TrimSuffix(prefix, ":")
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{redisClient: redisClient, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.redisClient.Get(ctx, c.getRedisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.redisClient.Set(ctx, c.getRedisKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.redisClient.Scan(ctx, 0, c.prefix+":*", clearBatch).Iterator()
	keys := make([]string, 0, clearBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == clearBatch {
			if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) > 0 {
		if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

func (c *RedisCache) getRedisKey(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}
