package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bigsby-exe/tAPI/internal/handler/dto"
	"github.com/bigsby-exe/tAPI/internal/service"
)

// TodoHandler handles HTTP requests for todo operations.
type TodoHandler struct {
	svc    *service.TodoService
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(svc *service.TodoService, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /todos/.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.CreateTodoInput{
		Title:            req.Title,
		Description:      req.Description,
		DueAt:            req.DueAt,
		EstimatedMinutes: req.EstimatedMinutes,
		Status:           req.Status,
		Priority:         req.Priority,
		Tags:             req.Tags,
	}

	todo, err := h.svc.CreateTodo(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_created",
		"todo_id", todo.ID,
		"priority", todo.Priority,
		"tag_count", len(todo.Tags),
	)

	writeJSON(w, http.StatusCreated, dto.ToTodoResponse(todo))
}

// Get handles GET /todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	todo, err := h.svc.GetTodo(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// List handles GET /todos/.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.ListTodosInput{
		Query:  query.Get("q"),
		Tag:    query.Get("tag"),
		Status: query.Get("status"),
	}

	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed == 0 {
			h.writeError(w, http.StatusUnprocessableEntity, "INVALID_LIMIT", "Limit must be an integer between 1 and 1000")
			return
		}
		input.Limit = parsed
	}

	todos, err := h.svc.ListTodos(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// Update handles PATCH /todos/{id}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateTodoInput{
		ID:               id,
		Title:            req.Title,
		Description:      req.Description,
		DueAt:            req.DueAt,
		EstimatedMinutes: req.EstimatedMinutes,
		Status:           req.Status,
		Priority:         req.Priority,
		Tags:             req.Tags,
	}

	todo, err := h.svc.UpdateTodo(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_updated", "todo_id", todo.ID)

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(todo))
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.DeleteTodo(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("todo_deleted", "todo_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *TodoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		h.writeError(w, http.StatusNotFound, "TODO_NOT_FOUND", "Todo not found")
	case errors.Is(err, service.ErrInvalidID):
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_ID", "Todo ID must be a valid UUID")
	case errors.Is(err, service.ErrTitleRequired):
		h.writeError(w, http.StatusUnprocessableEntity, "TITLE_REQUIRED", "Title must not be empty")
	case errors.Is(err, service.ErrInvalidPriority):
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_PRIORITY", "Priority must be between 1 and 5")
	case errors.Is(err, service.ErrInvalidEstimatedMinutes):
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_ESTIMATED_MINUTES", "Estimated minutes must be non-negative")
	case errors.Is(err, service.ErrInvalidLimit):
		h.writeError(w, http.StatusUnprocessableEntity, "INVALID_LIMIT", "Limit must be an integer between 1 and 1000")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *TodoHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
