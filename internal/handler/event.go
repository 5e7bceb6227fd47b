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

// EventHandler serves the calendar CRUD endpoints.
type EventHandler struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(repo *repository.Repository, logger *slog.Logger) *EventHandler {
	return &EventHandler{repo: repo, logger: logger}
}

// Create handles POST /api/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.StartAt == nil || req.EndAt == nil {
		writeError(w, http.StatusBadRequest, "title, start_at and end_at are required")
		return
	}

	now := time.Now().UTC()
	event := &model.Event{
		ID:             ulid.Make().String(),
		UserID:         auth.UserIDFromContext(r.Context()),
		Title:          req.Title,
		StartAt:        *req.StartAt,
		EndAt:          *req.EndAt,
		Location:       req.Location,
		Description:    req.Description,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.repo.CreateEvent(r.Context(), event); err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// List handles GET /api/events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.repo.ListEvents(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// Update handles PUT /api/events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.StartAt == nil || req.EndAt == nil {
		writeError(w, http.StatusBadRequest, "title, start_at and end_at are required")
		return
	}

	event := &model.Event{
		ID:             chi.URLParam(r, "id"),
		UserID:         auth.UserIDFromContext(r.Context()),
		Title:          req.Title,
		StartAt:        *req.StartAt,
		EndAt:          *req.EndAt,
		Location:       req.Location,
		Description:    req.Description,
		IsRecurring:    req.IsRecurring,
		RecurrenceRule: req.RecurrenceRule,
	}

	updated, err := h.repo.UpdateEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.repo.DeleteEvent(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "event deleted"})
}

func (h *EventHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("event handler error", "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
