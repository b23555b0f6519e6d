// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/bigsby-exe/tAPI/internal/cache"
	"github.com/bigsby-exe/tAPI/internal/metrics"
	"github.com/bigsby-exe/tAPI/internal/model"
	"github.com/bigsby-exe/tAPI/internal/repository"
)

// Service errors.
var (
	ErrTodoNotFound            = errors.New("todo not found")
	ErrInvalidID               = errors.New("invalid todo id")
	ErrTitleRequired           = errors.New("title is required")
	ErrInvalidPriority         = errors.New("priority must be between 1 and 5")
	ErrInvalidEstimatedMinutes = errors.New("estimated_minutes must be non-negative")
	ErrInvalidLimit            = errors.New("limit must be between 1 and 1000")
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// TodoService handles todo business logic.
type TodoService struct {
	repo      repository.TodoRepository
	cache     *cache.TodoCache
	metrics   metrics.Recorder
	listGroup singleflight.Group
}

// NewTodoService creates a new TodoService.
// cache may be nil, in which case list caching is disabled.
func NewTodoService(repo repository.TodoRepository, cache *cache.TodoCache, recorder metrics.Recorder) *TodoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TodoService{
		repo:    repo,
		cache:   cache,
		metrics: recorder,
	}
}

// CreateTodoInput defines input for creating a todo.
type CreateTodoInput struct {
	Title            string
	Description      string
	DueAt            *time.Time
	EstimatedMinutes *int
	Status           string
	Priority         *int
	Tags             []string
}

// CreateTodo validates the input, fills defaults and persists a new todo.
func (s *TodoService) CreateTodo(ctx context.Context, input CreateTodoInput) (*model.Todo, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if input.EstimatedMinutes != nil && *input.EstimatedMinutes < 0 {
		return nil, ErrInvalidEstimatedMinutes
	}

	priority := model.PriorityDefault
	if input.Priority != nil {
		if err := validatePriority(*input.Priority); err != nil {
			return nil, err
		}
		priority = *input.Priority
	}

	status := model.StatusTodo
	if input.Status != "" {
		status = model.Status(input.Status)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	// One clock read: created_at and updated_at are equal at creation.
	// Truncated to microseconds to match timestamptz precision, so a
	// record round-trips through the database unchanged.
	now := time.Now().UTC().Truncate(time.Microsecond)

	todo := &model.Todo{
		ID:               uuid.New().String(),
		Title:            title,
		Description:      strings.TrimSpace(input.Description),
		DueAt:            input.DueAt,
		EstimatedMinutes: input.EstimatedMinutes,
		Status:           status,
		Priority:         priority,
		Tags:             tags,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.metrics.IncTodoCreated()
	s.invalidateListCache(ctx)

	return todo, nil
}

// GetTodo retrieves a todo by ID.
func (s *TodoService) GetTodo(ctx context.Context, id string) (*model.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	todo, err := s.repo.GetTodo(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	return todo, nil
}

// ListTodosInput defines input for listing todos.
type ListTodosInput struct {
	Query  string
	Tag    string
	Status string
	Limit  int // 0 means default
}

// ListTodos retrieves todos matching the input filters, oldest first.
// Results are served from the list cache when possible; concurrent
// identical lookups collapse into a single repository query.
func (s *TodoService) ListTodos(ctx context.Context, input ListTodosInput) ([]*model.Todo, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveListDuration(time.Since(start))
	}()

	limit := input.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit < 1 || limit > maxListLimit {
		return nil, ErrInvalidLimit
	}

	filter := repository.TodoFilter{
		Query:  strings.TrimSpace(input.Query),
		Tag:    input.Tag,
		Status: model.Status(input.Status),
		Limit:  limit,
	}

	if s.cache == nil {
		return s.repo.ListTodos(ctx, filter)
	}

	key := cache.TodoListKey(filter.Query, filter.Tag, string(filter.Status), filter.Limit)

	todos, err := s.cache.GetList(ctx, key)
	if err == nil {
		s.metrics.IncListCacheHit()
		return todos, nil
	}
	if errors.Is(err, cache.ErrCacheMiss) {
		s.metrics.IncListCacheMiss()
	}
	// Redis errors fall through to the repository.

	result, err, _ := s.listGroup.Do(key, func() (any, error) {
		todos, err := s.repo.ListTodos(ctx, filter)
		if err != nil {
			return nil, err
		}

		// Best-effort backfill; entries expire via TTL
		_ = s.cache.SetList(ctx, key, todos)

		return todos, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]*model.Todo), nil
}

// UpdateTodoInput defines input for partially updating a todo.
// Nil pointer fields (and a nil Tags slice) are left unchanged.
type UpdateTodoInput struct {
	ID               string
	Title            *string
	Description      *string
	DueAt            *time.Time
	EstimatedMinutes *int
	Status           *string
	Priority         *int
	Tags             []string
}

// UpdateTodo applies a partial update and refreshes updated_at.
func (s *TodoService) UpdateTodo(ctx context.Context, input UpdateTodoInput) (*model.Todo, error) {
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	todo, err := s.repo.GetTodo(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		todo.Title = title
	}

	if input.Description != nil {
		todo.Description = strings.TrimSpace(*input.Description)
	}

	if input.DueAt != nil {
		todo.DueAt = input.DueAt
	}

	if input.EstimatedMinutes != nil {
		if *input.EstimatedMinutes < 0 {
			return nil, ErrInvalidEstimatedMinutes
		}
		todo.EstimatedMinutes = input.EstimatedMinutes
	}

	if input.Status != nil {
		todo.Status = model.Status(*input.Status)
	}

	if input.Priority != nil {
		if err := validatePriority(*input.Priority); err != nil {
			return nil, err
		}
		todo.Priority = *input.Priority
	}

	if input.Tags != nil {
		todo.Tags = input.Tags
	}

	// Refreshed on every successful patch, no-op patches included
	todo.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	s.metrics.IncTodoUpdated()
	s.invalidateListCache(ctx)

	return todo, nil
}

// DeleteTodo removes a todo permanently.
func (s *TodoService) DeleteTodo(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.DeleteTodo(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.metrics.IncTodoDeleted()
	s.invalidateListCache(ctx)

	return nil
}

// invalidateListCache drops cached list results after a write.
// Failures are tolerated - stale entries expire via TTL.
func (s *TodoService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateLists(ctx)
}

// validateID checks that id is a syntactically valid UUID.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// validatePriority checks the 1..5 priority bounds.
func validatePriority(priority int) error {
	if priority < model.PriorityHighest || priority > model.PriorityLowest {
		return ErrInvalidPriority
	}
	return nil
}
