//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bigsby-exe/tAPI/internal/model"
	"github.com/bigsby-exe/tAPI/internal/testutil"
)

// ============================================================================
// Todo Repository Integration Tests
// ============================================================================

func TestIntegrationTodoRepository_CreateTodo(t *testing.T) {
	ctx, repo := newTodoTestEnv(t)

	todo := testutil.NewTestTodoWithTags(t, testutil.UniqueTitle("create"), "errands", "home")
	todo.Description = "pick up milk and eggs"

	err := repo.CreateTodo(ctx, todo)
	if err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	// Verify todo exists in DB
	retrieved, err := repo.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}

	if retrieved.Title != todo.Title {
		t.Errorf("Title mismatch: got %q, want %q", retrieved.Title, todo.Title)
	}
	if retrieved.Description != todo.Description {
		t.Errorf("Description mismatch: got %q, want %q", retrieved.Description, todo.Description)
	}
	if len(retrieved.Tags) != 2 || retrieved.Tags[0] != "errands" || retrieved.Tags[1] != "home" {
		t.Errorf("Tags mismatch: got %v, want [errands home]", retrieved.Tags)
	}
	if !retrieved.CreatedAt.Equal(todo.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", retrieved.CreatedAt, todo.CreatedAt)
	}
	if !retrieved.UpdatedAt.Equal(retrieved.CreatedAt) {
		t.Error("UpdatedAt should equal CreatedAt for a fresh todo")
	}
}

func TestIntegrationTodoRepository_CreateTodo_OptionalFields(t *testing.T) {
	ctx, repo := newTodoTestEnv(t)

	dueAt := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Microsecond)
	mins := 90
	todo := testutil.NewTestTodoWithDueDate(t, testutil.UniqueTitle("optional"), dueAt)
	todo.EstimatedMinutes = &mins
	todo.Priority = model.PriorityHighest

	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	retrieved, err := repo.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}

	if retrieved.DueAt == nil || !retrieved.DueAt.Equal(dueAt) {
		t.Errorf("DueAt mismatch: got %v, want %v", retrieved.DueAt, dueAt)
	}
	if retrieved.EstimatedMinutes == nil || *retrieved.EstimatedMinutes != 90 {
		t.Errorf("EstimatedMinutes mismatch: got %v, want 90", retrieved.EstimatedMinutes)
	}
	if retrieved.Priority != model.PriorityHighest {
		t.Errorf("Priority mismatch: got %d, want %d", retrieved.Priority, model.PriorityHighest)
	}
}

func TestIntegrationTodoRepository_GetTodo_NotFound(t *testing.T) {
	ctx, repo := newTodoTestEnv(t)

	_, err := repo.GetTodo(ctx, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound, got: %v", err)
	}
}

func TestIntegrationTodoRepository_ListTodos_InsertionOrder(t *testing.T) {
	ctx, repo := newTodoTestEnv(t)

	// Create 5 todos with strictly increasing created_at
	var ids []string
	for i := 0; i < 5; i++ {
		todo := testutil.NewTestTodo(t, testutil.UniqueTitle("order"))
		if err := repo.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
		ids = append(ids, todo.ID)
		time.Sleep(1 * time.Millisecond) // Ensure different created_at
	}

	todos, err := repo.ListTodos(ctx, TodoFilter{Limit: 100})
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}

	if len(todos) != 5 {
		t.Fatalf("Expected 5 todos, got %d", len(todos))
	}

	for i, todo := range todos {
		if todo.ID != ids[i] {
			t.Errorf("todos[%d].ID = %q, want %q (insertion order)", i, todo.ID, ids[i])
		}
	}
}

func TestIntegrationTodoRepository_ListTodos_Filters(t *testing.T) {
	ctx, repo := newTodoTestEnv(t)

	groceries := testutil.NewTestTodoWithTags(t, "Buy groceries", "errands")
	report := testutil.NewTestTodo(t, "Write quarterly report")
	report.Status = model.StatusInProgress
	cleanup := testutil.NewTestTodoWithTags(t, "grocery list cleanup", "home", "errands")
	cleanup.Status = model.StatusDone

	for _, todo := range []*model.Todo{groceries, report, cleanup} {
		if err := repo.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
		time.Sleep(1 * time.Millisecond)
	}

	testCases := []struct {
		name    string
		filter  TodoFilter
		wantIDs []string
	}{
		{"title substring case-insensitive", TodoFilter{Query: "GROCER", Limit: 100}, []string{groceries.ID, cleanup.ID}},
		{"tag containment", TodoFilter{Tag: "errands", Limit: 100}, []string{groceries.ID, cleanup.ID}},
		{"tag without match", TodoFilter{Tag: "work", Limit: 100}, nil},
		{"status filter", TodoFilter{Status: model.StatusInProgress, Limit: 100}, []string{report.ID}},
		{"combined filters", TodoFilter{Query: "grocery", Tag: "home", Limit: 100}, []string{cleanup.ID}},
		{"limit", TodoFilter{Limit: 2}, []string{groceries.ID, report.ID}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			todos, err := repo.ListTodos(ctx, tc.filter)
			if err != nil {
				t.Fatalf("ListTodos failed: %v", err)
			}

			if len(todos) != len(tc.wantIDs) {
				t.Fatalf("got %d todos, want %d", len(todos), len(tc.wantIDs))
			}
			for i, want := range tc.wantIDs {
				if todos[i].ID != want {
					t.Errorf("todos[%d].ID = %q, want %q", i, todos[i].ID, want)
				}
			}
		})
	}
}

func TestIntegrationTodoRepository_UpdateTodo(t *testing.T) {
	ctx, repo := newTodoTestEnv(t)

	todo := testutil.NewTestTodo(t, testutil.UniqueTitle("update"))
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	todo.Title = "renamed title"
	todo.Status = model.StatusDone
	todo.Tags = []string{"finished"}
	todo.UpdatedAt = todo.UpdatedAt.Add(time.Minute)

	if err := repo.UpdateTodo(ctx, todo); err != nil {
		t.Fatalf("UpdateTodo failed: %v", err)
	}

	retrieved, err := repo.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatalf("GetTodo failed: %v", err)
	}

	if retrieved.Title != "renamed title" {
		t.Errorf("Title not updated: got %q", retrieved.Title)
	}
	if retrieved.Status != model.StatusDone {
		t.Errorf("Status not updated: got %q", retrieved.Status)
	}
	if len(retrieved.Tags) != 1 || retrieved.Tags[0] != "finished" {
		t.Errorf("Tags not updated: got %v", retrieved.Tags)
	}
	if !retrieved.CreatedAt.Equal(todo.CreatedAt) {
		t.Error("CreatedAt must not change on update")
	}
	if !retrieved.UpdatedAt.After(retrieved.CreatedAt) {
		t.Error("UpdatedAt should be after CreatedAt")
	}
}

func TestIntegrationTodoRepository_UpdateTodo_NotFound(t *testing.T) {
	ctx, repo := newTodoTestEnv(t)

	ghost := testutil.NewTestTodo(t, "ghost")
	err := repo.UpdateTodo(ctx, ghost)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound, got: %v", err)
	}
}

func TestIntegrationTodoRepository_DeleteTodo_HardDelete(t *testing.T) {
	ctx, repo := newTodoTestEnv(t)

	todo := testutil.NewTestTodo(t, testutil.UniqueTitle("delete"))
	if err := repo.CreateTodo(ctx, todo); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	if err := repo.DeleteTodo(ctx, todo.ID); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}

	// Row is gone, not tombstoned
	_, err := repo.GetTodo(ctx, todo.ID)
	if !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound after delete, got: %v", err)
	}

	var count int
	if err := repo.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM todos WHERE id = $1", todo.ID).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected row to be removed, found %d rows", count)
	}

	// Deleting again keeps failing the same way
	if err := repo.DeleteTodo(ctx, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("Expected ErrTodoNotFound on repeat delete, got: %v", err)
	}
}

func TestIntegrationTodoRepository_CreateThenDeleteCounts(t *testing.T) {
	ctx, repo := newTodoTestEnv(t)

	const n = 6
	var ids []string
	for i := 0; i < n; i++ {
		todo := testutil.NewTestTodo(t, testutil.UniqueTitle("count"))
		if err := repo.CreateTodo(ctx, todo); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
		ids = append(ids, todo.ID)
		time.Sleep(1 * time.Millisecond)
	}

	const m = 2
	for i := 0; i < m; i++ {
		if err := repo.DeleteTodo(ctx, ids[i]); err != nil {
			t.Fatalf("DeleteTodo failed: %v", err)
		}
	}

	todos, err := repo.ListTodos(ctx, TodoFilter{Limit: 100})
	if err != nil {
		t.Fatalf("ListTodos failed: %v", err)
	}

	if len(todos) != n-m {
		t.Errorf("Expected %d todos after deletions, got %d", n-m, len(todos))
	}
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newTodoTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetTodosSchema(ctx, repo.Pool(), dbURL); err != nil {
		t.Fatalf("reset todos schema: %v", err)
	}

	return ctx, repo
}
