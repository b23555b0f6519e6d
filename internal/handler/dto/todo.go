// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/bigsby-exe/tAPI/internal/model"
)

// CreateTodoRequest represents the request body for creating a todo.
type CreateTodoRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Priority         *int       `json:"priority,omitempty"`
	Status           string     `json:"status,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
}

// UpdateTodoRequest represents the request body for partially updating a todo.
// Pointer fields distinguish "absent" from zero values; a JSON null is treated
// the same as an absent field.
type UpdateTodoRequest struct {
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Priority         *int       `json:"priority,omitempty"`
	Status           *string    `json:"status,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
}

// TodoResponse represents a todo in API responses.
type TodoResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Status           string     `json:"status"`
	Priority         int        `json:"priority"`
	Tags             []string   `json:"tags"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToTodoResponse converts a Todo model to TodoResponse DTO.
func ToTodoResponse(todo *model.Todo) *TodoResponse {
	tags := todo.Tags
	if tags == nil {
		tags = []string{}
	}
	return &TodoResponse{
		ID:               todo.ID,
		Title:            todo.Title,
		Description:      todo.Description,
		DueAt:            todo.DueAt,
		EstimatedMinutes: todo.EstimatedMinutes,
		Status:           string(todo.Status),
		Priority:         todo.Priority,
		Tags:             tags,
		CreatedAt:        todo.CreatedAt,
		UpdatedAt:        todo.UpdatedAt,
	}
}

// ToTodoListResponse converts a slice of Todo models to response DTOs.
// The result is never nil so an empty list serializes as [].
func ToTodoListResponse(todos []*model.Todo) []TodoResponse {
	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = *ToTodoResponse(todo)
	}
	return responses
}
