// Package service contains the StudySync application services.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	pkgcrypto "github.com/and161185/studysync/internal/crypto"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/limiter"
	"github.com/and161185/studysync/internal/mailer"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// AuthService defines account and session operations.
type AuthService interface {
	// Register creates an account and its profile, then signs in.
	Register(ctx context.Context, email, password, name string) (model.Tokens, model.Identity, error)
	// SignIn applies rate-limiting and authenticates the user.
	SignIn(ctx context.Context, email, password, ip string) (model.Tokens, model.Identity, error)
	// SignOut revokes the session.
	SignOut(ctx context.Context, sessionID uuid.UUID) error
	// Authenticate verifies an access token and its session.
	Authenticate(ctx context.Context, token string) (userID, sessionID uuid.UUID, err error)
	// SendPasswordReset issues a reset token for email if the account exists.
	SendPasswordReset(ctx context.Context, email string) error
	// ResetPassword redeems a reset token.
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangeEmail(ctx context.Context, userID uuid.UUID, email string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error
	ChangeDisplayName(ctx context.Context, userID uuid.UUID, name string) (model.Identity, error)
	// Current loads the identity, creating a default profile when none exists.
	Current(ctx context.Context, userID uuid.UUID) (model.Identity, error)
}

// AuthRepos groups the storage used by AuthServiceImpl.
type AuthRepos struct {
	Users    repository.UserRepository
	Sessions repository.SessionRepository
	Resets   repository.ResetRepository
	Profiles repository.ProfileRepository
}

// AuthOptions configure token lifetimes.
type AuthOptions struct {
	SignKey   []byte
	AccessTTL time.Duration
	ResetTTL  time.Duration
}

// AuthServiceImpl implements AuthService.
type AuthServiceImpl struct {
	repos AuthRepos
	opts  AuthOptions
	lim   limiter.Limiter
	mail  mailer.Mailer
	log   *zap.Logger
	now   Clock
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(repos AuthRepos, opts AuthOptions, lim limiter.Limiter, mail mailer.Mailer, log *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{repos: repos, opts: opts, lim: lim, mail: mail, log: log.With(zap.String("component", "auth")), now: time.Now}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errs.ErrInvalidEmail
	}
	return email, nil
}

func checkPassword(password string) error {
	if len(password) < MinPasswordLen {
		return errs.ErrWeakPassword
	}
	return nil
}

// Register creates a new account, writes its default profile and opens a session.
// The profile write is skipped when the account cannot be created.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, name string) (model.Tokens, model.Identity, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return model.Tokens{}, model.Identity{}, err
	}
	if err := checkPassword(password); err != nil {
		return model.Tokens{}, model.Identity{}, err
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return model.Tokens{}, model.Identity{}, err
	}
	hash, salt, err := pkgcrypto.NewPasswordHash(password)
	if err != nil {
		return model.Tokens{}, model.Identity{}, err
	}
	u := &model.User{ID: uid, Email: email, DisplayName: strings.TrimSpace(name), PwdHash: hash, Salt: salt}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return model.Tokens{}, model.Identity{}, err
	}

	p := model.DefaultProfile(*u, s.now())
	followUp(ctx, s.log, "create profile", func(ctx context.Context) error {
		return s.repos.Profiles.Put(ctx, &p)
	})

	tok, err := s.openSession(ctx, uid)
	if err != nil {
		return model.Tokens{}, model.Identity{}, err
	}
	return tok, model.Identity{User: *u, Profile: p}, nil
}

// SignIn authenticates with rate limiting by (email, ip) and refreshes activity stats.
func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password, ip string) (model.Tokens, model.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.Identity{}, err
	}
	if !allowed {
		return model.Tokens{}, model.Identity{}, errs.ErrRateLimited
	}

	u, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.Salt, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.Identity{}, errs.ErrRateLimited
		}
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			s.log.Error("sign-in lookup", zap.Error(err))
		}
		// unknown email and wrong password look the same
		return model.Tokens{}, model.Identity{}, errs.ErrUnauthorized
	}

	followUp(ctx, s.log, "reset limiter", func(ctx context.Context) error {
		return s.lim.Success(ctx, email, ipHash)
	})

	tok, err := s.openSession(ctx, u.ID)
	if err != nil {
		return model.Tokens{}, model.Identity{}, err
	}

	id, err := s.Current(ctx, u.ID)
	if err != nil {
		return model.Tokens{}, model.Identity{}, err
	}
	now := s.now()
	streak := model.NextStreak(id.Profile.LastActive, id.Profile.StudyStreak, now)
	followUp(ctx, s.log, "touch profile", func(ctx context.Context) error {
		return s.repos.Profiles.Touch(ctx, u.ID, now, streak)
	})
	id.Profile.LastActive, id.Profile.StudyStreak = now, streak
	return tok, id, nil
}

// SignOut deletes the session. Failures are logged only.
func (s *AuthServiceImpl) SignOut(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repos.Sessions.Delete(ctx, sessionID); err != nil {
		s.log.Warn("sign-out", zap.String("session", sessionID.String()), zap.Error(err))
	}
	return nil
}

// Authenticate verifies HS256 signature, expiry and that the session is still live.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (uuid.UUID, uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.opts.SignKey, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !parsed.Valid {
		return uuid.Nil, uuid.Nil, errs.ErrNotAuthenticated
	}
	userID, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, errs.ErrNotAuthenticated
	}
	sessionID, err := uuid.FromString(claims.ID)
	if err != nil {
		return uuid.Nil, uuid.Nil, errs.ErrNotAuthenticated
	}

	sess, err := s.repos.Sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return uuid.Nil, uuid.Nil, errs.ErrNotAuthenticated
		}
		return uuid.Nil, uuid.Nil, err
	}
	if sess.UserID != userID {
		return uuid.Nil, uuid.Nil, errs.ErrNotAuthenticated
	}
	return userID, sessionID, nil
}

// SendPasswordReset stores a hashed one-time token and mails the clear one.
// Unknown emails succeed silently.
func (s *AuthServiceImpl) SendPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	u, err := s.repos.Users.GetByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		s.log.Info("password reset for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, hash, err := pkgcrypto.NewResetToken()
	if err != nil {
		return err
	}
	pr := &model.PasswordReset{TokenHash: hash, UserID: u.ID, ExpiresAt: s.now().Add(s.opts.ResetTTL)}
	if err := s.repos.Resets.Create(ctx, pr); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	return s.mail.SendPasswordReset(ctx, u.Email, token)
}

// ResetPassword sets a new password with a reset token and revokes all sessions.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return errs.ErrInvalidResetToken
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	hash, salt, err := pkgcrypto.NewPasswordHash(newPassword)
	if err != nil {
		return err
	}
	_, err = s.repos.Resets.Redeem(ctx, pkgcrypto.HashToken(token), s.now(), hash, salt)
	return err
}

// ChangeEmail updates the sign-in email and mirrors it into the profile.
func (s *AuthServiceImpl) ChangeEmail(ctx context.Context, userID uuid.UUID, email string) error {
	if userID == uuid.Nil {
		return errs.ErrNotAuthenticated
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := s.repos.Users.UpdateEmail(ctx, userID, email); err != nil {
		return err
	}
	followUp(ctx, s.log, "profile email", func(ctx context.Context) error {
		_, err := s.repos.Profiles.Patch(ctx, userID, model.ProfilePatch{model.FieldEmail: email})
		return err
	})
	return nil
}

// ChangePassword replaces the password of the signed-in user.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if userID == uuid.Nil {
		return errs.ErrNotAuthenticated
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	hash, salt, err := pkgcrypto.NewPasswordHash(newPassword)
	if err != nil {
		return err
	}
	return s.repos.Users.UpdatePassword(ctx, userID, hash, salt)
}

// ChangeDisplayName updates the display name, merges it into the profile and
// returns the refreshed identity.
func (s *AuthServiceImpl) ChangeDisplayName(ctx context.Context, userID uuid.UUID, name string) (model.Identity, error) {
	if userID == uuid.Nil {
		return model.Identity{}, errs.ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if err := s.repos.Users.UpdateDisplayName(ctx, userID, name); err != nil {
		return model.Identity{}, err
	}
	followUp(ctx, s.log, "profile name", func(ctx context.Context) error {
		_, err := s.repos.Profiles.Patch(ctx, userID, model.ProfilePatch{model.FieldName: name})
		return err
	})
	return s.Current(ctx, userID)
}

// Current loads the account and its profile. A missing profile is synthesized and stored.
func (s *AuthServiceImpl) Current(ctx context.Context, userID uuid.UUID) (model.Identity, error) {
	if userID == uuid.Nil {
		return model.Identity{}, errs.ErrNotAuthenticated
	}
	u, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return model.Identity{}, err
	}
	p, err := s.repos.Profiles.Get(ctx, userID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		def := model.DefaultProfile(*u, s.now())
		if err := s.repos.Profiles.Put(ctx, &def); err != nil {
			return model.Identity{}, fmt.Errorf("create default profile: %w", err)
		}
		p = &def
	case err != nil:
		return model.Identity{}, err
	}
	return model.Identity{User: *u, Profile: *p}, nil
}

func (s *AuthServiceImpl) openSession(ctx context.Context, userID uuid.UUID) (model.Tokens, error) {
	sid, err := uuid.NewV4()
	if err != nil {
		return model.Tokens{}, err
	}
	now := s.now()
	sess := &model.Session{ID: sid, UserID: userID, ExpiresAt: now.Add(s.opts.AccessTTL)}
	if err := s.repos.Sessions.Create(ctx, sess); err != nil {
		return model.Tokens{}, fmt.Errorf("create session: %w", err)
	}
	access, err := s.issueAccessToken(userID, sid, now, sess.ExpiresAt)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: access, SessionID: sid, ExpiresAt: sess.ExpiresAt}, nil
}

// issueAccessToken creates a signed HS256 JWT for the given subject and session.
func (s *AuthServiceImpl) issueAccessToken(userID, sessionID uuid.UUID, now, exp time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID.String(),
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.opts.SignKey)
}
