//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigsby-exe/tAPI/internal/model"
	"github.com/bigsby-exe/tAPI/internal/testutil"
)

// ============================================================================
// Todo Cache Integration Tests
// ============================================================================

func TestIntegrationTodoCache_SetGetRoundtrip(t *testing.T) {
	ctx, todoCache := newCacheTestEnv(t)

	now := time.Now().UTC().Truncate(time.Microsecond)
	mins := 30
	todos := []*model.Todo{
		{
			ID:               "11111111-1111-1111-1111-111111111111",
			Title:            "cached todo",
			Description:      "with description",
			EstimatedMinutes: &mins,
			Status:           model.StatusTodo,
			Priority:         model.PriorityDefault,
			Tags:             []string{"a", "b"},
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}

	key := TodoListKey("cached", "", "", 100)
	if err := todoCache.SetList(ctx, key, todos); err != nil {
		t.Fatalf("SetList failed: %v", err)
	}

	got, err := todoCache.GetList(ctx, key)
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(got))
	}
	if got[0].ID != todos[0].ID {
		t.Errorf("ID = %q, want %q", got[0].ID, todos[0].ID)
	}
	if got[0].Title != "cached todo" {
		t.Errorf("Title = %q, want %q", got[0].Title, "cached todo")
	}
	if got[0].EstimatedMinutes == nil || *got[0].EstimatedMinutes != 30 {
		t.Errorf("EstimatedMinutes = %v, want 30", got[0].EstimatedMinutes)
	}
	if len(got[0].Tags) != 2 || got[0].Tags[0] != "a" {
		t.Errorf("Tags = %v, want [a b]", got[0].Tags)
	}
	if !got[0].CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, now)
	}
}

func TestIntegrationTodoCache_GetList_Miss(t *testing.T) {
	ctx, todoCache := newCacheTestEnv(t)

	_, err := todoCache.GetList(ctx, TodoListKey("absent", "", "", 100))
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got: %v", err)
	}
}

func TestIntegrationTodoCache_InvalidateLists(t *testing.T) {
	ctx, todoCache := newCacheTestEnv(t)

	// Populate several list entries
	keys := []string{
		TodoListKey("", "", "", 100),
		TodoListKey("q", "", "", 100),
		TodoListKey("", "home", "done", 50),
	}
	for _, key := range keys {
		if err := todoCache.SetList(ctx, key, []*model.Todo{}); err != nil {
			t.Fatalf("SetList failed: %v", err)
		}
	}

	if err := todoCache.InvalidateLists(ctx); err != nil {
		t.Fatalf("InvalidateLists failed: %v", err)
	}

	for _, key := range keys {
		if _, err := todoCache.GetList(ctx, key); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("key %q should be gone after invalidation, got: %v", key, err)
		}
	}
}

func TestIntegrationTodoCache_TTLExpiry(t *testing.T) {
	ctx, _ := newCacheTestEnv(t)

	cacheConn := newCacheConn(t, ctx)
	short := NewTodoCache(cacheConn, 1*time.Second)

	key := TodoListKey("ttl", "", "", 100)
	if err := short.SetList(ctx, key, []*model.Todo{}); err != nil {
		t.Fatalf("SetList failed: %v", err)
	}

	if _, err := short.GetList(ctx, key); err != nil {
		t.Fatalf("GetList before expiry failed: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	if _, err := short.GetList(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after TTL expiry, got: %v", err)
	}
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newCacheConn(t *testing.T, ctx context.Context) *Cache {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	cacheConn, err := New(ctx, redisURL)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() {
		_ = cacheConn.Close()
	})

	return cacheConn
}

func newCacheTestEnv(t *testing.T) (context.Context, *TodoCache) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	cacheConn := newCacheConn(t, ctx)

	if err := testutil.FlushRedis(ctx, cacheConn.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, NewTodoCache(cacheConn, 60*time.Second)
}
