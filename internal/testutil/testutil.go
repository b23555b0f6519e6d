package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver for goose
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/bigsby-exe/tAPI/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetTodosSchema drops the todos schema and replays the goose
// migrations from scratch, leaving a clean database for a test.
func ResetTodosSchema(ctx context.Context, pool *pgxpool.Pool, databaseURL string) error {
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS todos"); err != nil {
		return fmt.Errorf("drop todos table: %w", err)
	}
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS goose_db_version"); err != nil {
		return fmt.Errorf("drop goose version table: %w", err)
	}

	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	db, err := goose.OpenDBWithDriver("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := goose.Up(db, filepath.Join(root, "migrations")); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestTodo creates a test todo with sensible defaults.
func NewTestTodo(t testing.TB, title string) *model.Todo {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Todo{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    model.StatusTodo,
		Priority:  model.PriorityDefault,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestTodoWithTags creates a test todo carrying the given tags.
func NewTestTodoWithTags(t testing.TB, title string, tags ...string) *model.Todo {
	t.Helper()
	todo := NewTestTodo(t, title)
	todo.Tags = tags
	return todo
}

// NewTestTodoWithDueDate creates a test todo with a due date.
func NewTestTodoWithDueDate(t testing.TB, title string, dueAt time.Time) *model.Todo {
	t.Helper()
	todo := NewTestTodo(t, title)
	todo.DueAt = &dueAt
	return todo
}

// UniqueTitle generates a unique title for tests.
func UniqueTitle(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
