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

// BudgetHandler serves the category and transaction CRUD endpoints.
type BudgetHandler struct {
	repo   *repository.Repository
	logger *slog.Logger
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(repo *repository.Repository, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{repo: repo, logger: logger}
}

// ListCategories handles GET /api/categories.
func (h *BudgetHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories.
func (h *BudgetHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCategory(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	category := &model.Category{
		ID:        ulid.Make().String(),
		UserID:    auth.UserIDFromContext(r.Context()),
		Name:      req.Name,
		Type:      req.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			writeError(w, http.StatusConflict, "category name already in use")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/{id}.
func (h *BudgetHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCategory(w, r)
	if !ok {
		return
	}

	category := &model.Category{
		ID:     chi.URLParam(r, "id"),
		UserID: auth.UserIDFromContext(r.Context()),
		Name:   req.Name,
		Type:   req.Type,
	}

	updated, err := h.repo.UpdateCategory(r.Context(), category)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "category not found")
		case errors.Is(err, repository.ErrCategoryNameTaken):
			writeError(w, http.StatusConflict, "category name already in use")
		default:
			h.serverError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory handles DELETE /api/categories/{id}.
func (h *BudgetHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	err := h.repo.DeleteCategory(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "category not found")
		case errors.Is(err, repository.ErrCategoryInUse):
			writeError(w, http.StatusConflict, "category is in use and cannot be deleted")
		default:
			h.serverError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "category deleted"})
}

// CreateTransaction handles POST /api/transactions.
func (h *BudgetHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTransaction(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	tx := &model.Transaction{
		ID:              ulid.Make().String(),
		UserID:          auth.UserIDFromContext(r.Context()),
		Type:            req.Type,
		Amount:          req.Amount,
		TransactionDate: *req.TransactionDate,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.repo.CreateTransaction(r.Context(), tx); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// ListTransactions handles GET /api/transactions.
func (h *BudgetHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.repo.ListTransactions(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

// UpdateTransaction handles PUT /api/transactions/{id}.
func (h *BudgetHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTransaction(w, r)
	if !ok {
		return
	}

	tx := &model.Transaction{
		ID:              chi.URLParam(r, "id"),
		UserID:          auth.UserIDFromContext(r.Context()),
		Type:            req.Type,
		Amount:          req.Amount,
		TransactionDate: *req.TransactionDate,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
	}

	updated, err := h.repo.UpdateTransaction(r.Context(), tx)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "transaction not found")
		case errors.Is(err, repository.ErrCategoryNotFound):
			writeError(w, http.StatusBadRequest, "unknown category")
		default:
			h.serverError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteTransaction handles DELETE /api/transactions/{id}.
func (h *BudgetHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := h.repo.DeleteTransaction(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "transaction deleted"})
}

// decodeCategory parses and validates a category body.
func (h *BudgetHandler) decodeCategory(w http.ResponseWriter, r *http.Request) (dto.CategoryRequest, bool) {
	var req dto.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Name == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "name and type are required")
		return req, false
	}
	if !model.IsValidTransactionType(req.Type) {
		writeError(w, http.StatusBadRequest, "type must be 'income' or 'expense'")
		return req, false
	}
	return req, true
}

// decodeTransaction parses and validates a transaction body.
func (h *BudgetHandler) decodeTransaction(w http.ResponseWriter, r *http.Request) (dto.TransactionRequest, bool) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.Type == "" || req.Amount == 0 || req.TransactionDate == nil || req.CategoryID == "" {
		writeError(w, http.StatusBadRequest, "type, amount, transaction_date and category_id are required")
		return req, false
	}
	if !model.IsValidTransactionType(req.Type) {
		writeError(w, http.StatusBadRequest, "type must be 'income' or 'expense'")
		return req, false
	}
	return req, true
}

func (h *BudgetHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("budget handler error", "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
