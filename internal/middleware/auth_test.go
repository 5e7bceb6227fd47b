package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hideout/hideout/internal/auth"
)

// recorderStore captures UpdateLastAccessed calls and signals on a channel
// so tests can wait for the detached write.
type recorderStore struct {
	mu      sync.Mutex
	userIDs []string
	err     error
	touched chan struct{}
}

func newRecorderStore(err error) *recorderStore {
	return &recorderStore{err: err, touched: make(chan struct{}, 8)}
}

func (s *recorderStore) UpdateLastAccessed(_ context.Context, userID string, _ time.Time) error {
	s.mu.Lock()
	s.userIDs = append(s.userIDs, userID)
	s.mu.Unlock()
	s.touched <- struct{}{}
	return s.err
}

func (s *recorderStore) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userIDs...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := auth.UserIDFromContext(r.Context()); got != wantUserID {
			t.Errorf("expected user ID %q in context, got %q", wantUserID, got)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingToken(t *testing.T) {
	t.Parallel()

	store := newRecorderStore(nil)
	mw := Auth(AuthConfig{
		Logger: testLogger(),
		Tokens: auth.NewTokenService("secret", time.Hour),
		Store:  store,
	})

	handlerRan := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"bare token", "some-token-without-scheme"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tc.name, w.Code)
		}
	}

	if handlerRan {
		t.Error("downstream handler must not run without a token")
	}
	if len(store.calls()) != 0 {
		t.Error("last access must not be touched on rejected requests")
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	store := newRecorderStore(nil)
	mw := Auth(AuthConfig{
		Logger: testLogger(),
		Tokens: auth.NewTokenService("secret", time.Hour),
		Store:  store,
	})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("downstream handler must not run with an invalid token")
	}))

	// Signed with a different secret
	foreign, err := auth.NewTokenService("other-secret", time.Hour).Issue("user-1")
	if err != nil {
		t.Fatalf("issuing foreign token failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for wrong-secret token, got %d", w.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	store := newRecorderStore(nil)
	tokens := auth.NewTokenService("secret", time.Hour)
	mw := Auth(AuthConfig{Logger: testLogger(), Tokens: tokens, Store: store})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("downstream handler must not run with an expired token")
	}))

	expired, err := auth.NewTokenService("secret", -time.Minute).Issue("user-1")
	if err != nil {
		t.Fatalf("issuing expired token failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for expired token, got %d", w.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	store := newRecorderStore(nil)
	tokens := auth.NewTokenService("secret", time.Hour)
	mw := Auth(AuthConfig{Logger: testLogger(), Tokens: tokens, Store: store})

	handler := mw(okHandler(t, "user-42"))

	token, err := tokens.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// The touch is asynchronous; wait for it to land.
	select {
	case <-store.touched:
	case <-time.After(2 * time.Second):
		t.Fatal("last access update never happened")
	}

	calls := store.calls()
	if len(calls) != 1 || calls[0] != "user-42" {
		t.Errorf("expected one last-access update for user-42, got %v", calls)
	}
}

func TestAuth_TouchFailureDoesNotAffectResponse(t *testing.T) {
	t.Parallel()

	store := newRecorderStore(context.DeadlineExceeded)
	tokens := auth.NewTokenService("secret", time.Hour)
	mw := Auth(AuthConfig{Logger: testLogger(), Tokens: tokens, Store: store})

	handler := mw(okHandler(t, "user-42"))

	token, err := tokens.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("store failure must not change the response, got %d", w.Code)
	}

	select {
	case <-store.touched:
	case <-time.After(2 * time.Second):
		t.Fatal("last access update was never attempted")
	}
}
