package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kapu/pokedex-kakao-bot-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheService wraps Redis for the bot: API response caching, collection
// snapshots, quiz round state and the learned Korean-name hash.
type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

const koreanNameHashKey = "pokedex:names:ko"

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

// Get unmarshals the value at key into dest. A missing key is not an
// error: dest is left untouched, so callers detect misses by a nil dest.
func (c *CacheService) Get(ctx context.Context, key string, dest any) error {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

func (c *CacheService) HSet(ctx context.Context, key, field, value string) error {
	if err := c.client.HSet(ctx, key, field, value).Err(); err != nil {
		c.logger.Error("Cache hset failed", zap.String("key", key), zap.String("field", field), zap.Error(err))
		return errors.NewCacheError("hset failed", "hset", key, err)
	}
	return nil
}

func (c *CacheService) HGet(ctx context.Context, key, field string) (string, error) {
	value, err := c.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		c.logger.Error("Cache hget failed", zap.String("key", key), zap.String("field", field), zap.Error(err))
		return "", errors.NewCacheError("hget failed", "hget", key, err)
	}
	return value, nil
}

func (c *CacheService) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	values, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		c.logger.Error("Cache hgetall failed", zap.String("key", key), zap.Error(err))
		return map[string]string{}, errors.NewCacheError("hgetall failed", "hgetall", key, err)
	}
	return values, nil
}

// LearnKoreanName records a Korean display name → API slug mapping so
// later lookups resolve without a species fetch.
func (c *CacheService) LearnKoreanName(ctx context.Context, koreanName, slug string) error {
	if koreanName == "" || slug == "" {
		return nil
	}
	return c.HSet(ctx, koreanNameHashKey, koreanName, slug)
}

// LookupKoreanName resolves a learned Korean name to its API slug,
// empty when unknown.
func (c *CacheService) LookupKoreanName(ctx context.Context, koreanName string) (string, error) {
	if koreanName == "" {
		return "", nil
	}
	return c.HGet(ctx, koreanNameHashKey, koreanName)
}

// KnownKoreanNames returns the full learned name map (korean name → slug).
func (c *CacheService) KnownKoreanNames(ctx context.Context) (map[string]string, error) {
	return c.HGetAll(ctx, koreanNameHashKey)
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}

func (c *CacheService) WaitUntilReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for Redis to be ready")
		case <-ticker.C:
			if c.IsConnected(ctx) {
				return nil
			}
		}
	}
}
