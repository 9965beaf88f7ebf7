package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/celebrum-pairs/internal/models"
)

// PriceCacheEntry represents a cached price table with metadata
type PriceCacheEntry struct {
	Observations []models.PriceObservation `json:"observations"`
	CachedAt     time.Time                 `json:"cached_at"`
	ExpiresAt    time.Time                 `json:"expires_at"`
}

// PriceCacheStats tracks cache performance metrics
type PriceCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// HitRate returns hits as a percentage of lookups.
func (s PriceCacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// RedisPriceCache implements price table caching using Redis
type RedisPriceCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
	logger *logrus.Logger

	mu    sync.RWMutex
	stats PriceCacheStats
}

// NewRedisPriceCache creates a new Redis-based price cache
func NewRedisPriceCache(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisPriceCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisPriceCache{
		redis:  redisClient,
		ttl:    ttl,
		prefix: "pairs:prices:",
		logger: logger,
	}
}

// Key identifies a price table by timeframe, lookback start (day
// resolution) and symbol universe. Symbol order does not matter.
func (c *RedisPriceCache) Key(timeframe string, symbols []string, since time.Time) string {
	universe := "*"
	if len(symbols) > 0 {
		sorted := make([]string, len(symbols))
		copy(sorted, symbols)
		sort.Strings(sorted)
		universe = strings.Join(sorted, ",")
	}
	return fmt.Sprintf("%s%s:%s:%s", c.prefix, timeframe, since.UTC().Format("2006-01-02"), universe)
}

// Get retrieves a price table from Redis. A miss is not an error.
func (c *RedisPriceCache) Get(ctx context.Context, key string) ([]models.PriceObservation, bool, error) {
	if c.redis == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}

	data, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.recordMiss()
		return nil, false, nil
	}
	if err != nil {
		c.recordMiss()
		return nil, false, fmt.Errorf("failed to read price cache: %w", err)
	}

	var entry PriceCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.recordMiss()
		return nil, false, fmt.Errorf("failed to decode price cache entry: %w", err)
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()

	return entry.Observations, true, nil
}

// Set stores a price table in Redis with the cache TTL
func (c *RedisPriceCache) Set(ctx context.Context, key string, observations []models.PriceObservation) error {
	if c.redis == nil {
		return fmt.Errorf("redis client is nil")
	}

	now := time.Now()
	entry := PriceCacheEntry{
		Observations: observations,
		CachedAt:     now,
		ExpiresAt:    now.Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode price cache entry: %w", err)
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write price cache: %w", err)
	}

	c.mu.Lock()
	c.stats.Sets++
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"key":          key,
		"observations": len(observations),
		"ttl":          c.ttl.String(),
	}).Debug("Cached price table")
	return nil
}

// GetStats returns current cache statistics
func (c *RedisPriceCache) GetStats() PriceCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// LogStats logs current cache performance statistics
func (c *RedisPriceCache) LogStats() {
	stats := c.GetStats()
	c.logger.WithFields(logrus.Fields{
		"hits":     stats.Hits,
		"misses":   stats.Misses,
		"sets":     stats.Sets,
		"hit_rate": fmt.Sprintf("%.2f%%", stats.HitRate()),
	}).Info("Price cache stats")
}

// Clear removes all cached price tables
func (c *RedisPriceCache) Clear(ctx context.Context) (int, error) {
	if c.redis == nil {
		return 0, fmt.Errorf("redis client is nil")
	}

	var keys []string
	iter := c.redis.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("error scanning cache keys: %w", err)
	}

	if len(keys) == 0 {
		return 0, nil
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("error clearing cache: %w", err)
	}
	return len(keys), nil
}

func (c *RedisPriceCache) recordMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
}
