package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bigsby-exe/tAPI/internal/model"
)

// Cache key prefix for list results.
const listKeyPrefix = "todos:list:"

// DefaultListTTL bounds how long a cached list may be served when the
// configured TTL is missing or non-positive.
const DefaultListTTL = 60 * time.Second

// Common cache errors.
var (
	ErrCacheMiss = errors.New("cache miss")
)

// TodoCache caches todo list results keyed by their filter combination.
// Entries are written with a TTL and dropped wholesale after any write
// to the store, so a stale read window never outlives the TTL.
type TodoCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewTodoCache creates a TodoCache on top of an established connection.
func NewTodoCache(c *Cache, ttl time.Duration) *TodoCache {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &TodoCache{cache: c, ttl: ttl}
}

// TodoListKey builds the canonical cache key for a list query.
// The title query is lowercased: title matching is case-insensitive,
// so differently-cased queries share an entry.
func TodoListKey(query, tag, status string, limit int) string {
	return fmt.Sprintf("%s%s|%s|%s|%d", listKeyPrefix, strings.ToLower(query), tag, status, limit)
}

// GetList retrieves a cached list result.
// Returns ErrCacheMiss if the key is absent.
func (t *TodoCache) GetList(ctx context.Context, key string) ([]*model.Todo, error) {
	data, err := t.cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var todos []*model.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, fmt.Errorf("failed to decode cached list: %w", err)
	}

	return todos, nil
}

// SetList stores a list result under key with the configured TTL.
func (t *TodoCache) SetList(ctx context.Context, key string, todos []*model.Todo) error {
	data, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("failed to encode list for cache: %w", err)
	}

	if err := t.cache.client.Set(ctx, key, data, t.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache list: %w", err)
	}

	return nil
}

// InvalidateLists drops every cached list result.
// Called after create/update/delete so reads never serve a todo that
// was removed, or miss one that was added, beyond the current request.
func (t *TodoCache) InvalidateLists(ctx context.Context) error {
	var cursor uint64

	for {
		keys, next, err := t.cache.client.Scan(ctx, cursor, listKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan list keys: %w", err)
		}

		if len(keys) > 0 {
			if err := t.cache.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete list keys: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return nil
}
