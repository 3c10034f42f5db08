package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/uclone1/yt-competitor-monitor/internal/model"
)

// DefaultChannelCacheTTL is how long a fetched channel stays cached. Channel
// pages move slowly; caching keeps restarts and manual runs from burning
// ScrapingDog API credits.
const DefaultChannelCacheTTL = 6 * time.Hour

// CacheService is a Redis cache-aside layer for scraped channel data.
type CacheService struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCacheService creates a CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		ttl = DefaultChannelCacheTTL
	}

	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, fetch caching disabled")
		return &CacheService{ttl: ttl}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Str("url", redisURL).Msg("redis: invalid URL, fetch caching disabled")
		return &CacheService{ttl: ttl}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, fetch caching disabled")
		return &CacheService{ttl: ttl}
	}

	log.Info().Dur("ttl", ttl).Msg("redis: connected, fetch caching enabled")
	return &CacheService{rdb: rdb, ttl: ttl}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetChannel retrieves a cached channel record. Returns nil when not cached
// or when caching is disabled.
func (c *CacheService) GetChannel(ctx context.Context, handle string) (*model.ChannelRecord, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, channelKey(handle)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record model.ChannelRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// SetChannel stores a channel record in cache.
func (c *CacheService) SetChannel(ctx context.Context, handle string, record *model.ChannelRecord) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, channelKey(handle), b, c.ttl).Err()
}

// InvalidateChannel removes a channel from cache (used by forced refreshes).
func (c *CacheService) InvalidateChannel(ctx context.Context, handle string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, channelKey(handle)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func channelKey(handle string) string {
	return "channel:" + handle
}
