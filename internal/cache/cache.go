package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const opTimeout = 3 * time.Second

// CountCache keeps per-user unread-notification counts in Redis so the
// badge poll does not hit the store on every request. A nil *CountCache
// is valid and behaves as an always-miss cache.
type CountCache struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

// NewCountCache connects to Redis at addr. Entries expire after ttl.
func NewCountCache(addr string, ttl time.Duration) *CountCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
		ReadTimeout: opTimeout,
	})

	return &CountCache{
		client: rdb,
		ttl:    ttl,
		ctx:    context.Background(),
	}
}

func unreadKey(email string) string {
	return fmt.Sprintf("notifications:unread:%s", email)
}

// GetUnread returns the cached unread count for email, or ErrCacheMiss.
func (c *CountCache) GetUnread(email string) (int64, error) {
	if c == nil {
		return 0, ErrCacheMiss
	}

	ctx, cancel := context.WithTimeout(c.ctx, opTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, unreadKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, err
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrCacheMiss
	}
	return count, nil
}

// SetUnread stores the unread count for email.
func (c *CountCache) SetUnread(email string, count int64) error {
	if c == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.ctx, opTimeout)
	defer cancel()

	return c.client.Set(ctx, unreadKey(email), count, c.ttl).Err()
}

// Invalidate drops the cached count for email. Called whenever a
// notification for that user is created or marked read.
func (c *CountCache) Invalidate(email string) error {
	if c == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.ctx, opTimeout)
	defer cancel()

	return c.client.Del(ctx, unreadKey(email)).Err()
}

// Close releases the Redis connection.
func (c *CountCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
