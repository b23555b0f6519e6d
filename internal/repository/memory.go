package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bigsby-exe/tAPI/internal/model"
)

// MemoryRepository is an in-memory TodoRepository adapter.
// It mirrors the PostgreSQL adapter's semantics (sentinel errors,
// stable list ordering) and is used by tests and local development.
type MemoryRepository struct {
	mu    sync.RWMutex
	todos map[string]*model.Todo
}

// MemoryRepository implements TodoRepository.
var _ TodoRepository = (*MemoryRepository)(nil)

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		todos: make(map[string]*model.Todo),
	}
}

// CreateTodo stores a new todo. IDs must be unique.
func (m *MemoryRepository) CreateTodo(_ context.Context, todo *model.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.todos[todo.ID]; exists {
		return fmt.Errorf("todo id already exists: %s", todo.ID)
	}

	m.todos[todo.ID] = cloneTodo(todo)
	return nil
}

// GetTodo retrieves a todo by its ID.
func (m *MemoryRepository) GetTodo(_ context.Context, id string) (*model.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todo, ok := m.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}

	return cloneTodo(todo), nil
}

// ListTodos retrieves todos matching the filter, oldest first with id
// as tiebreaker — the same ordering the SQL adapter produces.
func (m *MemoryRepository) ListTodos(_ context.Context, filter TodoFilter) ([]*model.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var todos []*model.Todo
	for _, todo := range m.todos {
		if !matchesFilter(todo, filter) {
			continue
		}
		todos = append(todos, cloneTodo(todo))
	}

	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.Before(todos[j].CreatedAt)
		}
		return todos[i].ID < todos[j].ID
	})

	if filter.Limit > 0 && len(todos) > filter.Limit {
		todos = todos[:filter.Limit]
	}

	return todos, nil
}

// UpdateTodo replaces a stored todo's mutable fields.
func (m *MemoryRepository) UpdateTodo(_ context.Context, todo *model.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.todos[todo.ID]
	if !ok {
		return ErrTodoNotFound
	}

	updated := cloneTodo(todo)
	updated.CreatedAt = existing.CreatedAt
	m.todos[todo.ID] = updated
	return nil
}

// DeleteTodo removes a todo permanently.
func (m *MemoryRepository) DeleteTodo(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[id]; !ok {
		return ErrTodoNotFound
	}

	delete(m.todos, id)
	return nil
}

// matchesFilter applies the same predicates the SQL adapter pushes
// into its WHERE clause.
func matchesFilter(todo *model.Todo, filter TodoFilter) bool {
	if filter.Query != "" && !strings.Contains(strings.ToLower(todo.Title), strings.ToLower(filter.Query)) {
		return false
	}
	if filter.Tag != "" && !todo.HasTag(filter.Tag) {
		return false
	}
	if filter.Status != "" && todo.Status != filter.Status {
		return false
	}
	return true
}

// cloneTodo deep-copies a todo so callers never share memory with the store.
func cloneTodo(todo *model.Todo) *model.Todo {
	clone := *todo
	if todo.DueAt != nil {
		due := *todo.DueAt
		clone.DueAt = &due
	}
	if todo.EstimatedMinutes != nil {
		mins := *todo.EstimatedMinutes
		clone.EstimatedMinutes = &mins
	}
	if todo.Tags != nil {
		clone.Tags = append([]string(nil), todo.Tags...)
	}
	return &clone
}
