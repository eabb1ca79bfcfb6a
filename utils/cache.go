package utils

import (
	"DocVault/internal/repo"
	"DocVault/model"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeleteByPattern deletes cache entries by pattern.
func (c *RedisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

type CacheManager struct {
	cache Cache
}

var globalCacheManager *CacheManager
var cacheManagerOnce sync.Once

// GetCacheManager returns the cache manager, or nil when Redis is not
// available; callers then fall through to the catalog.
func GetCacheManager() *CacheManager {
	if repo.Redis == nil {
		return nil
	}
	cacheManagerOnce.Do(func() {
		globalCacheManager = &CacheManager{
			cache: NewRedisCache(repo.Redis),
		}
	})
	return globalCacheManager
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

const CacheKeyUserDocList = "user:doc:list"

// GetDocListFromCache reads a cached document listing for one user's
// (search, sort) combination.
func GetDocListFromCache(ctx context.Context, userId uint64, search, sort string) ([]model.Document, bool) {
	manager := GetCacheManager()
	if manager == nil {
		return nil, false
	}
	key := BuildCacheKey(CacheKeyUserDocList, userId, search, sort)

	var result []model.Document
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return result, true
}

// SetDocListToCache writes a cached document listing.
func SetDocListToCache(ctx context.Context, userId uint64, search, sort string, docs []model.Document, expiration time.Duration) error {
	manager := GetCacheManager()
	if manager == nil {
		return nil
	}
	key := BuildCacheKey(CacheKeyUserDocList, userId, search, sort)
	return manager.cache.Set(ctx, key, docs, expiration)
}

// InvalidateDocListCache clears every cached listing for a user. Called
// after uploads and deletes so stale listings never outlive the TTL plus
// one write.
func InvalidateDocListCache(ctx context.Context, userId uint64) error {
	manager := GetCacheManager()
	if manager == nil {
		return nil
	}
	pattern := BuildCacheKey(CacheKeyUserDocList, userId) + ":*"
	cache, ok := manager.cache.(*RedisCache)
	if !ok {
		return manager.cache.Delete(ctx, pattern)
	}
	return cache.DeleteByPattern(ctx, pattern)
}
