package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// SessionRepo implements SessionRepository using PostgreSQL.
type SessionRepo struct{ db *DB }

// NewSessionRepo constructs a session repository.
func NewSessionRepo(db *DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a session row.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `
INSERT INTO sessions (id, user_id, expires_at)
VALUES ($1, $2, $3)
RETURNING created_at`
	return r.db.Pool.QueryRow(ctx, q, s.ID, s.UserID, s.ExpiresAt).Scan(&s.CreatedAt)
}

// Get loads a live session.
func (r *SessionRepo) Get(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	const q = `
SELECT id, user_id, created_at, expires_at
FROM sessions WHERE id=$1 AND expires_at > now()`
	var s model.Session
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Delete removes a session. Missing sessions are not an error.
func (r *SessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM sessions WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, id)
	return err
}

// DeleteByUser removes every session of a user.
func (r *SessionRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	const q = `DELETE FROM sessions WHERE user_id=$1`
	_, err := r.db.Pool.Exec(ctx, q, userID)
	return err
}

// ResetRepo implements ResetRepository using PostgreSQL.
type ResetRepo struct{ db *DB }

// NewResetRepo constructs a password reset repository.
func NewResetRepo(db *DB) *ResetRepo { return &ResetRepo{db: db} }

// Create stores a reset token hash.
func (r *ResetRepo) Create(ctx context.Context, pr *model.PasswordReset) error {
	const q = `INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.db.Pool.Exec(ctx, q, pr.TokenHash, pr.UserID, pr.ExpiresAt)
	return err
}

// Redeem consumes the token, sets the new password and revokes sessions atomically.
func (r *ResetRepo) Redeem(ctx context.Context, tokenHash []byte, now time.Time, pwdHash, salt []byte) (userID uuid.UUID, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return uuid.Nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const consume = `
UPDATE password_resets SET used_at=$2
WHERE token_hash=$1 AND used_at IS NULL AND expires_at > $2
RETURNING user_id`
	if err = tx.QueryRow(ctx, consume, tokenHash, now).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = errs.ErrInvalidResetToken
		}
		return uuid.Nil, err
	}

	const setPwd = `UPDATE users SET pwd_hash=$2, salt=$3 WHERE id=$1`
	if _, err = tx.Exec(ctx, setPwd, userID, pwdHash, salt); err != nil {
		return uuid.Nil, err
	}
	const revoke = `DELETE FROM sessions WHERE user_id=$1`
	if _, err = tx.Exec(ctx, revoke, userID); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}
