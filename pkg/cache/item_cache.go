package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultItemTTL applies when ItemCacheOptions.TTL is zero.
	DefaultItemTTL = 10 * time.Minute
	// DefaultEvictHold applies when ItemCacheOptions.EvictHold is zero.
	DefaultEvictHold = time.Minute

	itemKeyPrefix = "item"
	fieldEvicted  = "evicted"
)

// CachedItem is the denormalized read model stored in Redis.
// Fields are stored as a Redis hash. Description is nullable, so the hash
// carries a separate has_description flag.
type CachedItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	OwnerID     int64   `json:"user_id"`
}

// ItemCacheOptions configures entry lifetimes.
type ItemCacheOptions struct {
	// TTL is how long a warmed entry lives.
	TTL time.Duration
	// EvictHold is how long an evicted id refuses to be warmed again. A
	// reader that loaded the row before the write committed cannot put the
	// old state back while the hold lasts.
	EvictHold time.Duration
}

// ItemCache is the read-through cache for single items.
// Key format: "item:{itemID}". An evicted key holds only the "evicted" field.
type ItemCache struct {
	rdb  *redis.Client
	ttl  time.Duration
	hold time.Duration
}

// NewItemCache returns nil when r is nil; callers treat a nil cache as disabled.
func NewItemCache(r *RedisClient, opts ItemCacheOptions) *ItemCache {
	if r == nil {
		return nil
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultItemTTL
	}
	if opts.EvictHold <= 0 {
		opts.EvictHold = DefaultEvictHold
	}
	return &ItemCache{rdb: r.client, ttl: opts.TTL, hold: opts.EvictHold}
}

// Get returns redis.Nil when the item is not cached or was recently evicted.
func (c *ItemCache) Get(ctx context.Context, itemID int64) (*CachedItem, error) {
	vals, err := c.rdb.HGetAll(ctx, c.key(itemID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 || vals[fieldEvicted] != "" {
		return nil, redis.Nil
	}
	return decodeItem(vals)
}

// Warm stores item unless its id is under an eviction hold. The key is
// watched, so an Evict racing with Warm always wins. A skipped write is not
// an error.
func (c *ItemCache) Warm(ctx context.Context, item *CachedItem) error {
	key := c.key(item.ID)
	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		evicted, err := tx.HExists(ctx, key, fieldEvicted).Result()
		if err != nil {
			return err
		}
		if evicted {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, encodeItem(item)...)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, key)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("cache warm: %w", err)
	}
	return nil
}

// Evict drops the cached item and places the eviction hold on its id.
func (c *ItemCache) Evict(ctx context.Context, itemID int64) error {
	key := c.key(itemID)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldEvicted, "1")
		pipe.Expire(ctx, key, c.hold)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache evict: %w", err)
	}
	return nil
}

func (c *ItemCache) key(itemID int64) string {
	return itemKeyPrefix + ":" + strconv.FormatInt(itemID, 10)
}

func encodeItem(item *CachedItem) []any {
	desc, hasDesc := "", "0"
	if item.Description != nil {
		desc, hasDesc = *item.Description, "1"
	}
	return []any{
		"id", strconv.FormatInt(item.ID, 10),
		"name", item.Name,
		"description", desc,
		"has_description", hasDesc,
		"user_id", strconv.FormatInt(item.OwnerID, 10),
	}
}

func decodeItem(vals map[string]string) (*CachedItem, error) {
	id, err := strconv.ParseInt(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	ownerID, err := strconv.ParseInt(vals["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse user_id: %w", err)
	}

	item := &CachedItem{ID: id, Name: vals["name"], OwnerID: ownerID}
	if vals["has_description"] == "1" {
		d := vals["description"]
		item.Description = &d
	}
	return item, nil
}
