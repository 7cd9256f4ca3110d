package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/qr-guard/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "qr-guard:advice:"

// RedisCache is a Redis implementation of the CacheRepository interface.
// Expiry is delegated to Redis key TTLs.
type RedisCache struct {
	client    *redis.Client
	logger    *zap.Logger
	closeOnce sync.Once
}

// redisEntry is the JSON document stored per content key
type redisEntry struct {
	Suspicious  bool      `json:"suspicious"`
	Score       float64   `json:"score"`
	Confidence  float64   `json:"confidence"`
	Explanation string    `json:"explanation"`
	ModelUsed   string    `json:"model_used"`
	LastSeen    time.Time `json:"last_seen"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewRedisCache creates a new Redis cache and checks the connection
func NewRedisCache(addr string, password string, db int, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              db,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis cache", zap.String("address", addr), zap.Int("db", db))

	return &RedisCache{
		client: client,
		logger: logger,
	}, nil
}

// Get retrieves a cached entry for a content key
func (c *RedisCache) Get(ctx context.Context, contentKey string) (*core.CacheEntry, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+contentKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	var stored redisEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrNotFound
	}

	return &core.CacheEntry{
		ContentKey:  contentKey,
		Suspicious:  stored.Suspicious,
		Score:       stored.Score,
		Confidence:  stored.Confidence,
		Explanation: stored.Explanation,
		ModelUsed:   stored.ModelUsed,
		LastSeen:    stored.LastSeen,
		ExpiresAt:   stored.ExpiresAt,
	}, nil
}

// Set stores a cache entry. An entry that has already expired removes any
// previous value instead.
func (c *RedisCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return c.Delete(ctx, entry.ContentKey)
	}

	data, err := json.Marshal(redisEntry{
		Suspicious:  entry.Suspicious,
		Score:       entry.Score,
		Confidence:  entry.Confidence,
		Explanation: entry.Explanation,
		ModelUsed:   entry.ModelUsed,
		LastSeen:    entry.LastSeen,
		ExpiresAt:   entry.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+entry.ContentKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Delete removes a cache entry
func (c *RedisCache) Delete(ctx context.Context, contentKey string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+contentKey).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup is a no-op, Redis expires keys on its own
func (c *RedisCache) Cleanup(ctx context.Context) error {
	c.logger.Debug("Skipping cleanup, Redis expires cache entries by TTL")
	return nil
}

// Stop closes the Redis connection
func (c *RedisCache) Stop() {
	c.closeOnce.Do(func() {
		if err := c.client.Close(); err != nil {
			c.logger.Error("Failed to close Redis client", zap.Error(err))
		}
	})
}
