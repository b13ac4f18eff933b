// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string
	SessionID   uuid.UUID
	ExpiresAt   time.Time // access token expiry
}

// User represents an account stored on the server. Passwords are never stored in plaintext.
type User struct {
	ID          uuid.UUID // PK
	Email       string    // unique, lower-cased
	DisplayName string
	PwdHash     []byte // Argon2id(password, Salt)
	Salt        []byte // per-user auth salt
	CreatedAt   time.Time
}

// Session is a server-side record bound to an issued access token (JWT jti).
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// PasswordReset is a one-time reset token; only its hash is persisted.
type PasswordReset struct {
	TokenHash []byte
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// Identity is the authenticated user together with its profile.
type Identity struct {
	User    User
	Profile Profile
}
