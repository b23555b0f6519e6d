// Package model defines domain entities for the application.
package model

import (
	"time"
)

// Status represents the workflow state recorded on a todo.
// The store does not enforce transitions; any string is accepted and
// these constants cover the documented values.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Priority bounds. 1 is the most urgent, 5 the least.
const (
	PriorityHighest = 1
	PriorityDefault = 3
	PriorityLowest  = 5
)

// Todo represents a single todo item.
type Todo struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Status           Status     `json:"status"`
	Priority         int        `json:"priority"`
	Tags             []string   `json:"tags"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HasTag reports whether tag is present in the todo's tag list.
func (t *Todo) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}

// IsDone returns true once the todo has been marked done.
func (t *Todo) IsDone() bool {
	return t.Status == StatusDone
}

// IsOverdue returns true if the todo has a due date in the past
// and has not been completed.
func (t *Todo) IsOverdue() bool {
	return t.DueAt != nil && time.Now().After(*t.DueAt) && !t.IsDone()
}
