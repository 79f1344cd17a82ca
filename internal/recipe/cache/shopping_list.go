// Package cache keeps rendered shopping lists per user.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/foodgram/pkg/logger"
)

// ShoppingListCache stores the rendered list of a user until the cart changes.
// Entries are keyed by a per-user generation that Invalidate bumps, so a list
// rendered from a cart read taken before an invalidation is never served after it.
type ShoppingListCache interface {
	Generation(ctx context.Context, userID uint) (int64, error)
	Get(ctx context.Context, userID uint, gen int64) ([]byte, bool, error)
	Set(ctx context.Context, userID uint, gen int64, body []byte) error
	Invalidate(ctx context.Context, userIDs ...uint) error
}

// Key returns the cache key of a user's list at a generation
func Key(userID uint, gen int64) string {
	return "shopping_list:user:" + strconv.FormatUint(uint64(userID), 10) + ":" + strconv.FormatInt(gen, 10)
}

// GenerationKey returns the counter key bumped on every invalidation
func GenerationKey(userID uint) string {
	return "shopping_list:gen:" + strconv.FormatUint(uint64(userID), 10)
}

// RedisShoppingListCache implements ShoppingListCache with expiring redis keys
type RedisShoppingListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisShoppingListCache creates a redis cache. ttl <= 0 falls back to five minutes.
func NewRedisShoppingListCache(client *redis.Client, ttl time.Duration) *RedisShoppingListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisShoppingListCache{client: client, ttl: ttl}
}

// Generation returns the user's current generation, zero before the first invalidation
func (c *RedisShoppingListCache) Generation(ctx context.Context, userID uint) (int64, error) {
	gen, err := c.client.Get(ctx, GenerationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read shopping list generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached body. An empty list is cached too, so the body may be empty on a hit.
func (c *RedisShoppingListCache) Get(ctx context.Context, userID uint, gen int64) ([]byte, bool, error) {
	body, err := c.client.Get(ctx, Key(userID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read shopping list cache: %w", err)
	}
	return body, true, nil
}

// Set stores the body for the configured ttl
func (c *RedisShoppingListCache) Set(ctx context.Context, userID uint, gen int64, body []byte) error {
	if err := c.client.Set(ctx, Key(userID, gen), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write shopping list cache: %w", err)
	}
	logger.Logger.Debug().
		Uint("user_id", userID).
		Int64("generation", gen).
		Dur("ttl", c.ttl).
		Int("size", len(body)).
		Msg("Shopping list cached")
	return nil
}

// Invalidate bumps the generation of the given users. Superseded entries expire with their ttl.
func (c *RedisShoppingListCache) Invalidate(ctx context.Context, userIDs ...uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, id := range userIDs {
		pipe.Incr(ctx, GenerationKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate shopping list cache: %w", err)
	}
	logger.Logger.Debug().Int("count", len(userIDs)).Msg("Shopping list cache invalidated")
	return nil
}

// NopShoppingListCache never hits. Used when redis is not configured.
type NopShoppingListCache struct{}

func (NopShoppingListCache) Generation(context.Context, uint) (int64, error) { return 0, nil }

func (NopShoppingListCache) Get(context.Context, uint, int64) ([]byte, bool, error) {
	return nil, false, nil
}

func (NopShoppingListCache) Set(context.Context, uint, int64, []byte) error { return nil }

func (NopShoppingListCache) Invalidate(context.Context, ...uint) error { return nil }

type memoryEntry struct {
	gen  int64
	body []byte
}

// MemoryShoppingListCache is a process-local cache without expiry
type MemoryShoppingListCache struct {
	mu      sync.Mutex
	gens    map[uint]int64
	entries map[uint]memoryEntry
}

// NewMemoryShoppingListCache creates an empty in-process cache
func NewMemoryShoppingListCache() *MemoryShoppingListCache {
	return &MemoryShoppingListCache{gens: make(map[uint]int64), entries: make(map[uint]memoryEntry)}
}

func (c *MemoryShoppingListCache) Generation(_ context.Context, userID uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID], nil
}

func (c *MemoryShoppingListCache) Get(_ context.Context, userID uint, gen int64) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	if !ok || e.gen != gen {
		return nil, false, nil
	}
	return e.body, true, nil
}

// Set drops writes for a generation that has already been superseded
func (c *MemoryShoppingListCache) Set(_ context.Context, userID uint, gen int64, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gens[userID] {
		return nil
	}
	c.entries[userID] = memoryEntry{gen: gen, body: append([]byte(nil), body...)}
	return nil
}

func (c *MemoryShoppingListCache) Invalidate(_ context.Context, userIDs ...uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		c.gens[id]++
		delete(c.entries, id)
	}
	return nil
}

// New picks the redis cache when a client is given and the nop cache otherwise
func New(client *redis.Client, ttl time.Duration) ShoppingListCache {
	if client == nil {
		return NopShoppingListCache{}
	}
	return NewRedisShoppingListCache(client, ttl)
}
