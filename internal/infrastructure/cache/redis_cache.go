package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisScoreCache stores model probabilities in Redis so replicas share
// them. It implements port.ScoreCache.
type RedisScoreCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewRedisClient creates a client for addr.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

// NewRedisScoreCache wraps client. A zero ttl keeps entries forever.
func NewRedisScoreCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisScoreCache {
	return &RedisScoreCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached probability. Redis errors count as a miss.
func (r *RedisScoreCache) Get(ctx context.Context, key string) (float64, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "score cache read failed", "key", key, "error", err)
		}
		return 0, false
	}
	p, err := strconv.ParseFloat(val, 64)
	if err != nil {
		r.logger.WarnContext(ctx, "score cache holds a malformed value", "key", key, "value", val)
		return 0, false
	}
	return p, true
}

// Set stores a probability.
func (r *RedisScoreCache) Set(ctx context.Context, key string, probability float64) error {
	val := strconv.FormatFloat(probability, 'g', -1, 64)
	if err := r.client.Set(ctx, key, val, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (r *RedisScoreCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *RedisScoreCache) Close() error {
	return r.client.Close()
}
