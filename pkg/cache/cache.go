package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs per cached object class.
const (
	TTLContentList = 30 * time.Second // content list, refreshed often
	TTLSnapshot    = 3 * time.Second  // publishing snapshot, just under the poll interval
	TTLArticles    = 2 * time.Minute  // article lists
	TTLSources     = 10 * time.Minute // source config, changes rarely
	TTLDefault     = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixContent  = "content:"
	PrefixContents = "contents:"
	PrefixSnapshot = "snapshot:"
	PrefixArticles = "articles:"
	PrefixSources  = "sources:"
)

// Service is the Redis cache facade. All operations degrade to no-ops or
// "not available" errors when Redis is absent.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	GetContentList(ctx context.Context, page, limit int) ([]byte, error)
	SetContentList(ctx context.Context, page, limit int, data interface{}) error
	InvalidateContentLists(ctx context.Context) error

	GetSnapshot(ctx context.Context, contentID uint64) ([]byte, error)
	SetSnapshot(ctx context.Context, contentID uint64, data interface{}) error
	InvalidateSnapshot(ctx context.Context, contentID uint64) error

	GetArticles(ctx context.Context, page, limit int) ([]byte, error)
	SetArticles(ctx context.Context, page, limit int, data interface{}) error
	InvalidateArticles(ctx context.Context) error

	GetSources(ctx context.Context) ([]byte, error)
	SetSources(ctx context.Context, data interface{}) error
	InvalidateSources(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no Redis, skip silently
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// ========================================
// Content list cache
// ========================================

func (c *redisCache) contentListKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", PrefixContents, page, limit)
}

func (c *redisCache) GetContentList(ctx context.Context, page, limit int) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.contentListKey(page, limit)).Bytes()
}

func (c *redisCache) SetContentList(ctx context.Context, page, limit int, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.contentListKey(page, limit), jsonData, TTLContentList).Err()
}

func (c *redisCache) InvalidateContentLists(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixContents+"*")
}

// ========================================
// Publishing snapshot cache
// ========================================

func (c *redisCache) snapshotKey(contentID uint64) string {
	return fmt.Sprintf("%s%d", PrefixSnapshot, contentID)
}

func (c *redisCache) GetSnapshot(ctx context.Context, contentID uint64) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.snapshotKey(contentID)).Bytes()
}

func (c *redisCache) SetSnapshot(ctx context.Context, contentID uint64, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.snapshotKey(contentID), jsonData, TTLSnapshot).Err()
}

func (c *redisCache) InvalidateSnapshot(ctx context.Context, contentID uint64) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.snapshotKey(contentID)).Err()
}

// ========================================
// Article cache
// ========================================

func (c *redisCache) articlesKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", PrefixArticles, page, limit)
}

func (c *redisCache) GetArticles(ctx context.Context, page, limit int) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.articlesKey(page, limit)).Bytes()
}

func (c *redisCache) SetArticles(ctx context.Context, page, limit int, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.articlesKey(page, limit), jsonData, TTLArticles).Err()
}

func (c *redisCache) InvalidateArticles(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixArticles+"*")
}

// ========================================
// Source config cache
// ========================================

func (c *redisCache) GetSources(ctx context.Context) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, PrefixSources+"all").Bytes()
}

func (c *redisCache) SetSources(ctx context.Context, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, PrefixSources+"all", jsonData, TTLSources).Err()
}

func (c *redisCache) InvalidateSources(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, PrefixSources+"all").Err()
}

// ========================================
// Internal utilities
// ========================================

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
