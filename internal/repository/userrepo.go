// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
	"time"

	"github.com/and161185/studysync/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository provides access to accounts.
type UserRepository interface {
	// Create inserts a new user; returns errs.ErrAlreadyExists on duplicate email.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateEmail changes the sign-in email.
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	// UpdatePassword replaces the password hash and salt.
	UpdatePassword(ctx context.Context, id uuid.UUID, hash, salt []byte) error
	// UpdateDisplayName changes the display name.
	UpdateDisplayName(ctx context.Context, id uuid.UUID, name string) error
}

// SessionRepository stores sessions bound to access tokens.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// Get returns errs.ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByUser revokes every session of a user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// ResetRepository stores one-time password reset tokens.
type ResetRepository interface {
	Create(ctx context.Context, r *model.PasswordReset) error
	// Redeem marks the token used, stores the new password and revokes the user's
	// sessions in one transaction. errs.ErrInvalidResetToken when the token is
	// unknown, used or expired at now.
	Redeem(ctx context.Context, tokenHash []byte, now time.Time, pwdHash, salt []byte) (uuid.UUID, error)
}
