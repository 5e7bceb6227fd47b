// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hideout/hideout/internal/auth"
	"github.com/hideout/hideout/internal/model"
	"github.com/hideout/hideout/internal/repository"
)

// Account service errors. ErrUnknownUser and ErrWrongPassword stay
// distinct for logging even though the API collapses both into a
// generic 401.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrUnknownUser   = errors.New("unknown user")
	ErrWrongPassword = errors.New("wrong password")
)

// AccountStore is the credential persistence needed by AccountService.
type AccountStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateLastAccessed(ctx context.Context, userID string, at time.Time) error
}

// AccountService handles registration and login.
type AccountService struct {
	store  AccountStore
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
}

// NewAccountService creates a new AccountService.
func NewAccountService(store AccountStore, hasher *auth.PasswordHasher, tokens *auth.TokenService) *AccountService {
	return &AccountService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new account with a hashed password.
// The new account counts as active from the moment of creation.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:             uuid.New().String(),
		Username:       strings.TrimSpace(username),
		Email:          strings.TrimSpace(email),
		PasswordHash:   hash,
		LastAccessedAt: now,
		CreatedAt:      now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials, records the activity, and issues a fresh
// bearer token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUnknownUser
		}
		return "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrWrongPassword
	}

	if err := s.store.UpdateLastAccessed(ctx, user.ID, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("failed to record login: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	return token, nil
}
