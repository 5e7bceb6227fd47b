package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/hideout/hideout/internal/auth"
	"github.com/hideout/hideout/internal/handler/dto"
	"github.com/hideout/hideout/internal/model"
	"github.com/hideout/hideout/internal/repository"
)

// TodoHandler serves the todo CRUD endpoints.
// All operations are scoped to the authenticated user.
type TodoHandler struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(repo *repository.Repository, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{repo: repo, logger: logger}
}

// Create handles POST /api/todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	now := time.Now().UTC()
	todo := &model.Todo{
		ID:          ulid.Make().String(),
		UserID:      auth.UserIDFromContext(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Category:    req.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.CreateTodo(r.Context(), todo); err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, todo)
}

// List handles GET /api/todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.repo.ListTodos(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

// Update handles PUT /api/todos/{id}.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	todo := &model.Todo{
		ID:          chi.URLParam(r, "id"),
		UserID:      auth.UserIDFromContext(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Category:    req.Category,
		IsCompleted: req.IsCompleted,
	}

	updated, err := h.repo.UpdateTodo(r.Context(), todo)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.repo.DeleteTodo(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			writeError(w, http.StatusNotFound, "todo not found")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "todo deleted"})
}

func (h *TodoHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("todo handler error", "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
