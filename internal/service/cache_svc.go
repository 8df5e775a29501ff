package service

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MovieCacheTTL bounds staleness of cached movie lookups; rating
// updates invalidate eagerly, the TTL is the backstop.
const MovieCacheTTL = 5 * time.Minute

// CacheService provides a Redis cache-aside layer for movie lookups.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or
// the connection fails, caching degrades to a no-op rather than
// blocking startup.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Str("url", redisURL).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{}
	}

	log.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (health checks, search
// mirror). May be nil when caching is disabled.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetMovie retrieves a cached movie response. Returns nil when not
// cached or the cache is disabled.
func (c *CacheService) GetMovie(ctx context.Context, movieID string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, movieKey(movieID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetMovie stores a movie response in cache.
func (c *CacheService) SetMovie(ctx context.Context, movieID string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, movieKey(movieID), b, MovieCacheTTL).Err()
}

// InvalidateMovie removes a movie from cache (called after rating
// updates and catalog writes).
func (c *CacheService) InvalidateMovie(ctx context.Context, movieID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, movieKey(movieID)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func movieKey(movieID string) string {
	return fmt.Sprintf("movie:%s", movieID)
}
