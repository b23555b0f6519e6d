package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bigsby-exe/tAPI/internal/model"
)

// CreateTodo inserts a new todo into the database.
func (r *Repository) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (id, title, description, due_at, estimated_minutes, status, priority, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.DueAt,
		todo.EstimatedMinutes,
		todo.Status,
		todo.Priority,
		todo.Tags,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetTodo retrieves a todo by its ID.
func (r *Repository) GetTodo(ctx context.Context, id string) (*model.Todo, error) {
	query := `
		SELECT id, title, description, due_at, estimated_minutes, status, priority, tags, created_at, updated_at
		FROM todos
		WHERE id = $1
	`

	todo, err := r.scanTodo(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// ListTodos retrieves todos matching the filter, oldest first.
// Insertion order is stable: created_at ascending with id as tiebreaker.
func (r *Repository) ListTodos(ctx context.Context, filter TodoFilter) ([]*model.Todo, error) {
	query := `
		SELECT id, title, description, due_at, estimated_minutes, status, priority, tags, created_at, updated_at
		FROM todos
	`

	var conditions []string
	var args []any
	argIndex := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argIndex))
		args = append(args, "%"+filter.Query+"%")
		argIndex++
	}

	if filter.Tag != "" {
		// JSONB containment: matches todos whose tags array includes the value
		conditions = append(conditions, fmt.Sprintf("tags @> jsonb_build_array($%d::text)", argIndex))
		args = append(args, filter.Tag)
		argIndex++
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at ASC, id ASC LIMIT $%d", argIndex)
	args = append(args, filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []*model.Todo
	for rows.Next() {
		todo, err := r.scanTodoFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// UpdateTodo writes back a todo's mutable fields.
// The caller supplies the fully patched record; id, created_at and
// the row identity never change.
func (r *Repository) UpdateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		UPDATE todos
		SET title = $2, description = $3, due_at = $4, estimated_minutes = $5, status = $6, priority = $7, tags = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.DueAt,
		todo.EstimatedMinutes,
		todo.Status,
		todo.Priority,
		todo.Tags,
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// DeleteTodo removes a todo row permanently.
func (r *Repository) DeleteTodo(ctx context.Context, id string) error {
	query := `DELETE FROM todos WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// scanTodo scans a single row into a Todo model.
func (r *Repository) scanTodo(row pgx.Row) (*model.Todo, error) {
	var todo model.Todo
	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.DueAt,
		&todo.EstimatedMinutes,
		&todo.Status,
		&todo.Priority,
		&todo.Tags,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	return &todo, err
}

// scanTodoFromRows scans a row from pgx.Rows into a Todo model.
func (r *Repository) scanTodoFromRows(rows pgx.Rows) (*model.Todo, error) {
	var todo model.Todo
	err := rows.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.DueAt,
		&todo.EstimatedMinutes,
		&todo.Status,
		&todo.Priority,
		&todo.Tags,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	return &todo, err
}
