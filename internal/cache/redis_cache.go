package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront-sync/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Keys the daemon stores in the shared cache.
const (
	CatalogItemsKey   = "catalog:items"
	CatalogKeyPattern = "catalog:*"

	idempotencyKeyPrefix = "idempotency:"
)

// DefaultCatalogTTL applies when CACHE_TTL is unset or not positive.
const DefaultCatalogTTL = 5 * time.Minute

// IdempotencyKey namespaces a client-supplied request ID.
func IdempotencyKey(requestID string) string {
	return idempotencyKeyPrefix + requestID
}

// CatalogTTL is how long a fetched catalog stays cached.
func CatalogTTL(cfg *config.Config) time.Duration {
	if cfg == nil || cfg.CacheTTL <= 0 {
		return DefaultCatalogTTL
	}
	return TTL(cfg.CacheTTL)
}

// Cache defines the interface for cache operations
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// DeleteByPattern deletes all keys matching a trailing-wildcard pattern
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RedisCache implements Cache using Redis
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// InMemoryCache is the fallback used when Redis is disabled or unreachable
type InMemoryCache struct {
	logger *zap.Logger
	mu     sync.Mutex
	data   map[string]cacheEntry
	now    func() time.Time
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewCache returns a Redis-backed cache when USE_CACHE is on and Redis answers
// a ping, otherwise an in-memory cache.
func NewCache(cfg *config.Config, logger *zap.Logger) Cache {
	if !cfg.UseCache {
		logger.Info("Redis disabled, using in-memory catalog cache")
		return NewInMemoryCache(logger)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		// A single daemon needs only a small pool
		PoolSize:     4,
		MinIdleConns: 1,
		// Timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		// Retry settings
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, using in-memory cache",
			zap.String("host", cfg.RedisHost),
			zap.String("port", cfg.RedisPort),
			zap.Error(err),
		)
		rdb.Close()
		return NewInMemoryCache(logger)
	}

	logger.Info("Redis cache initialized successfully",
		zap.String("host", cfg.RedisHost),
		zap.String("port", cfg.RedisPort),
		zap.Int("db", cfg.RedisDB),
	)

	return NewRedisCache(rdb, logger)
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func NewInMemoryCache(logger *zap.Logger) *InMemoryCache {
	return &InMemoryCache{
		logger: logger,
		data:   make(map[string]cacheEntry),
		now:    time.Now,
	}
}

func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.live(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = cacheEntry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}

func (c *InMemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.live(key)
	return ok, nil
}

func (c *InMemoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix, wildcard := strings.CutSuffix(pattern, "*")
	for key := range c.data {
		if (wildcard && strings.HasPrefix(key, prefix)) || key == pattern {
			delete(c.data, key)
		}
	}
	return nil
}

// live returns an unexpired entry, evicting it if stale. Caller holds mu.
func (c *InMemoryCache) live(key string) (cacheEntry, bool) {
	entry, exists := c.data[key]
	if !exists {
		return cacheEntry{}, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.data, key)
		return cacheEntry{}, false
	}
	return entry, true
}

// RedisCache implementation

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		c.logger.Warn("Redis Get error", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("redis get error: %w", err)
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("Redis Set error", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Redis Delete error", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Warn("Redis Exists error", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return count > 0, nil
}

func (c *RedisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Redis Scan error", zap.String("pattern", pattern), zap.Error(err))
		return fmt.Errorf("redis scan error: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Redis DeleteByPattern error", zap.String("pattern", pattern), zap.Error(err))
		return fmt.Errorf("redis delete by pattern error: %w", err)
	}
	c.logger.Debug("Deleted keys by pattern", zap.String("pattern", pattern), zap.Int("count", len(keys)))
	return nil
}

// GetJSON reads and decodes a cached JSON value.
func GetJSON(ctx context.Context, cache Cache, key string, dest interface{}) error {
	data, err := cache.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// SetJSON encodes and stores a JSON value.
func SetJSON(ctx context.Context, cache Cache, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return cache.Set(ctx, key, data, ttl)
}

// TTL returns a time.Duration from seconds
func TTL(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

var ErrCacheMiss = fmt.Errorf("cache miss")
