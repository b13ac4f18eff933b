// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates rejected input; wrapped with the field message.
	ErrValidation = errors.New("validation failed")

	// ErrNotAuthenticated indicates an operation that needs a session was called without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUnauthorized indicates failed authentication (bad credentials, revoked session).
	ErrUnauthorized = errors.New("invalid email or password")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("email already in use")

	// ErrWeakPassword indicates the password does not meet the minimum length.
	ErrWeakPassword = errors.New("password should be at least 6 characters")

	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("too many attempts, try again later")

	// ErrInvalidResetToken indicates an unknown, used or expired password reset token.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// Validation wraps ErrValidation with a human readable message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// IsAuthError reports whether err belongs to the authentication error family.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidResetToken)
}

// UploadError is returned when the file hosting service rejects an upload.
// Message carries the host's own error text.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload failed: status %d", e.Status)
	}
	return "upload failed: " + e.Message
}
