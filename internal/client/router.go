package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/errs"
)

// View is one screen of the client.
type View string

const (
	ViewHome      View = "home"
	ViewNotes     View = "notes"
	ViewPlanner   View = "planner"
	ViewProfile   View = "profile"
	ViewResources View = "resources"
	ViewLogin     View = "login"
	ViewSignup    View = "signup"
)

// Views lists every view in menu order.
var Views = []View{ViewHome, ViewNotes, ViewPlanner, ViewProfile, ViewResources, ViewLogin, ViewSignup}

// Protected reports whether v requires a session.
func (v View) Protected() bool {
	switch v {
	case ViewNotes, ViewPlanner, ViewProfile, ViewResources:
		return true
	}
	return false
}

// ParseView resolves a view name, case-insensitively.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Views {
		if v == known {
			return v, nil
		}
	}
	return "", errs.Validation("unknown view " + s)
}

// Form holds the login and signup inputs.
type Form struct {
	Email    string
	Password string
	Name     string
}

// Authenticator is the subset of the API the router needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.Session, error)
	Register(ctx context.Context, email, password, name string) (api.Session, error)
	Logout(ctx context.Context) error
	SetToken(token string)
}

// Router tracks the current view, the auth forms and the session.
type Router struct {
	auth  Authenticator
	store SessionStore
	log   *zap.Logger
	now   func() time.Time

	view    View
	session Session

	Form Form
	// Err is the last auth failure, shown as is.
	Err string
}

// NewRouter starts on the home view and restores a still valid stored session.
func NewRouter(auth Authenticator, store SessionStore, log *zap.Logger) (*Router, error) {
	r := &Router{auth: auth, store: store, log: log.With(zap.String("component", "router")), now: time.Now, view: ViewHome}
	s, err := store.Load()
	if err != nil {
		return nil, err
	}
	if s.Valid(r.now()) {
		r.session = s
		auth.SetToken(s.AccessToken)
	}
	return r, nil
}

// View is the current view.
func (r *Router) View() View { return r.view }

// Session is the current session; zero when signed out.
func (r *Router) Session() Session { return r.session }

// SignedIn reports whether the session is present and unexpired.
func (r *Router) SignedIn() bool { return r.session.Valid(r.now()) }

// Navigate switches the view. Protected views without a session leave the view unchanged.
func (r *Router) Navigate(v View) error {
	if _, err := ParseView(string(v)); err != nil {
		return err
	}
	if v.Protected() && !r.SignedIn() {
		return errs.ErrNotAuthenticated
	}
	r.view = v
	return nil
}

// SetField updates one form input by name.
func (r *Router) SetField(name, value string) error {
	switch strings.ToLower(name) {
	case "email":
		r.Form.Email = value
	case "password":
		r.Form.Password = value
	case "name":
		r.Form.Name = value
	default:
		return errs.Validation("unknown field " + name)
	}
	return nil
}

// SubmitLogin signs in with the form and lands on home.
func (r *Router) SubmitLogin(ctx context.Context) error {
	r.Err = ""
	s, err := r.auth.Login(ctx, r.Form.Email, r.Form.Password)
	return r.finish(s, err)
}

// SubmitSignup registers with the form and lands on home.
func (r *Router) SubmitSignup(ctx context.Context) error {
	r.Err = ""
	s, err := r.auth.Register(ctx, r.Form.Email, r.Form.Password, r.Form.Name)
	return r.finish(s, err)
}

func (r *Router) finish(s api.Session, err error) error {
	if err != nil {
		r.Err = errorText(err)
		return err
	}
	sess := Session{
		AccessToken: s.AccessToken,
		ExpiresAt:   s.ExpiresAt,
		UserID:      s.Identity.User.ID,
		Email:       s.Identity.User.Email,
		Name:        s.Identity.User.DisplayName,
	}
	if sess.ExpiresAt.IsZero() {
		exp, ok := TokenExpiry(sess.AccessToken)
		if !ok {
			exp = r.now().Add(15 * time.Minute)
		}
		sess.ExpiresAt = exp
	}
	if err := r.store.Save(sess); err != nil {
		return err
	}
	r.session = sess
	r.auth.SetToken(sess.AccessToken)
	r.Form.Password = ""
	r.view = ViewHome
	return nil
}

// SignOut revokes the session on the server when possible, forgets it locally and goes home.
// A failed server call is only logged; the error is returned only when the stored
// session could not be removed.
func (r *Router) SignOut(ctx context.Context) error {
	if r.session.AccessToken != "" {
		if err := r.auth.Logout(ctx); err != nil && !errors.Is(err, errs.ErrNotAuthenticated) {
			r.log.Warn("server sign-out failed", zap.Error(err))
		}
	}
	r.session = Session{}
	r.auth.SetToken("")
	r.view = ViewHome
	if err := r.store.Clear(); err != nil {
		return fmt.Errorf("forget session: %w", err)
	}
	return nil
}

func errorText(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Error()
	}
	return err.Error()
}
