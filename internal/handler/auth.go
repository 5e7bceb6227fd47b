package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hideout/hideout/internal/handler/dto"
	"github.com/hideout/hideout/internal/middleware"
	"github.com/hideout/hideout/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		h.logger.Error("registration failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("account registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{
		Message: "account created",
		UserID:  user.ID,
	})
}

// Login handles POST /api/login.
//
// Unknown-user and wrong-password failures are logged with distinct
// reasons but share one generic response, so the API does not confirm
// which usernames exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownUser):
			h.logger.Warn("login failed",
				"reason", "unknown_user",
				"username", req.Username,
				"request_id", middleware.GetRequestID(r.Context()),
			)
			writeError(w, http.StatusUnauthorized, "invalid username or password")
		case errors.Is(err, service.ErrWrongPassword):
			h.logger.Warn("login failed",
				"reason", "wrong_password",
				"username", req.Username,
				"request_id", middleware.GetRequestID(r.Context()),
			)
			writeError(w, http.StatusUnauthorized, "invalid username or password")
		default:
			h.logger.Error("login error",
				"error", err,
				"request_id", middleware.GetRequestID(r.Context()),
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}
