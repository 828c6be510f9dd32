// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a provisioned account (professor or student).
//
// PasswordHash carries the `json:"-"` tag so the credential can never leak into
// an API response, even if a handler encodes the full struct by mistake.
// The `db:"..."` tags are read by sqlx when scanning rows into the struct.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	Name         string    `json:"name"      db:"name"`
	Role         Role      `json:"role"      db:"role"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Identity is the (user, role) pair a session resolves to. It is what the
// auth middleware stores in the request context.
type Identity struct {
	UserID string
	Role   Role
}

// Session binds an opaque session id to an identity until ExpiresAt.
type Session struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
