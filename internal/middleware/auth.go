package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hideout/hideout/internal/auth"
)

// defaultTouchTimeout bounds the detached last-access write.
const defaultTouchTimeout = 5 * time.Second

// LastAccessRecorder records account activity. Implemented by the
// repository; narrowed here so tests can observe the detached write.
type LastAccessRecorder interface {
	UpdateLastAccessed(ctx context.Context, userID string, at time.Time) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens *auth.TokenService
	Store  LastAccessRecorder

	// TouchTimeout bounds the detached last-access update.
	// Zero means defaultTouchTimeout.
	TouchTimeout time.Duration
}

// Auth returns a middleware that authenticates API requests.
//
// A missing or malformed Authorization header rejects with 401; a
// present but invalid or expired token rejects with 403. On success the
// verified identity is attached to the request context and a detached
// task bumps the account's last_accessed_at. That write is
// fire-and-forget: it runs on its own context, may land after the
// response is sent, and its failure is logged but never alters the
// response already granted to the caller.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	touchTimeout := cfg.TouchTimeout
	if touchTimeout <= 0 {
		touchTimeout = defaultTouchTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := cfg.Tokens.Verify(token)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired_token"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			// Touch last_accessed_at off the request path. The request
			// context is not reused: the update must be free to outlive
			// the response.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
				defer cancel()
				if err := cfg.Store.UpdateLastAccessed(ctx, claims.UserID, time.Now().UTC()); err != nil {
					cfg.Logger.Warn("failed to record last access",
						slog.String("user_id", claims.UserID),
						slog.String("error", err.Error()),
					)
				}
			}()

			ctx := auth.ContextWithIdentity(r.Context(), &auth.Identity{UserID: claims.UserID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from the Authorization header.
// Anything other than the "Bearer <token>" scheme is treated the same
// as a missing token.
func extractBearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// writeAuthError writes a JSON auth failure response.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
