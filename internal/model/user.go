// Package model defines domain entities for the application.
package model

import "time"

// User represents an account holder.
// PasswordHash is the salted bcrypt digest of the login password; the
// plaintext is never stored. LastAccessedAt is bumped on registration,
// login, and every authenticated request.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	PasswordHash   string    `json:"-"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
	CreatedAt      time.Time `json:"created_at"`
}
