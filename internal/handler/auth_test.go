package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hideout/hideout/internal/auth"
	"github.com/hideout/hideout/internal/model"
	"github.com/hideout/hideout/internal/repository"
	"github.com/hideout/hideout/internal/service"
)

// memoryAccountStore is an in-memory service.AccountStore.
type memoryAccountStore struct {
	users map[string]*model.User
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{users: make(map[string]*model.User)}
}

func (s *memoryAccountStore) CreateUser(_ context.Context, user *model.User) error {
	if _, exists := s.users[user.Username]; exists {
		return repository.ErrUsernameTaken
	}
	s.users[user.Username] = user
	return nil
}

func (s *memoryAccountStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *memoryAccountStore) UpdateLastAccessed(_ context.Context, userID string, at time.Time) error {
	for _, u := range s.users {
		if u.ID == userID {
			u.LastAccessedAt = at
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func newTestAuthHandler() (*AuthHandler, *memoryAccountStore) {
	store := newMemoryAccountStore()
	accounts := service.NewAccountService(
		store,
		auth.NewPasswordHasher(4),
		auth.NewTokenService("test-secret", time.Hour),
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthHandler(accounts, logger), store
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	h, store := newTestAuthHandler()

	w := postJSON(t, h.Register, "/api/register",
		`{"username":"alice","email":"alice@example.com","password":"hunter22"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.UserID == "" {
		t.Error("expected userId in response")
	}

	user := store.users["alice"]
	if user == nil {
		t.Fatal("user was not stored")
	}
	if user.PasswordHash == "" || user.PasswordHash == "hunter22" {
		t.Error("stored password must be a non-empty hash, never the plaintext")
	}
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthHandler()

	cases := []string{
		`{}`,
		`{"username":"alice"}`,
		`{"password":"hunter22"}`,
		`not json`,
	}

	for _, body := range cases {
		w := postJSON(t, h.Register, "/api/register", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthHandler()

	w := postJSON(t, h.Register, "/api/register", `{"username":"alice","password":"pw1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("first registration should succeed, got %d", w.Code)
	}

	w = postJSON(t, h.Register, "/api/register", `{"username":"alice","password":"pw2"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", w.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthHandler()

	postJSON(t, h.Register, "/api/register", `{"username":"alice","password":"hunter22"}`)

	w := postJSON(t, h.Login, "/api/login", `{"username":"alice","password":"hunter22"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	claims, err := auth.NewTokenService("test-secret", time.Hour).Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token should verify: %v", err)
	}
	if claims.UserID == "" {
		t.Error("token should carry the account id")
	}
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()

	h, _ := newTestAuthHandler()

	postJSON(t, h.Register, "/api/register", `{"username":"alice","password":"hunter22"}`)

	// Unknown user and wrong password both present as the same 401 with
	// the same body; they are distinguished only in internal logs.
	unknown := postJSON(t, h.Login, "/api/login", `{"username":"nobody","password":"whatever"}`)
	wrongPw := postJSON(t, h.Login, "/api/login", `{"username":"alice","password":"wrong"}`)

	if unknown.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: expected 401, got %d", unknown.Code)
	}
	if wrongPw.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", wrongPw.Code)
	}
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Error("401 bodies must not reveal whether the username exists")
	}
}
