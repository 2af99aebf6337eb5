// Package cache is an optional read-through cache for listing results.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Close() error
}

// Noop never stores anything; every lookup is a miss.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) error                { return ErrMiss }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Close() error                                              { return nil }

type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects using a redis:// URL and checks the connection.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client, prefix: "collegedir:"}, nil
}

func (r *RedisCache) GetJSON(ctx context.Context, key string, dest any) error {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (r *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, data, ttl).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// Key joins parts into a cache key. Parts are lower-cased and trimmed since
// every lookup they feed is case-insensitive, then escaped so ":" inside a
// part cannot collide with the separator.
func Key(parts ...string) string {
	norm := make([]string, len(parts))
	for i, p := range parts {
		norm[i] = url.QueryEscape(strings.ToLower(strings.TrimSpace(p)))
	}
	return strings.Join(norm, ":")
}
