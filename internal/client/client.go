// Package client is the StudySync API client and the view state used by the CLI.
package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/errs"
)

// APIError is a non-2xx answer of the server. Message is the raw server text.
type APIError struct {
	Status  int
	Message string
}

// Error is the server message, shown to the user as is.
func (e *APIError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Status)
	}
	return e.Message
}

// Unwrap maps the status back to the shared sentinels so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return errs.ErrValidation
	case http.StatusUnauthorized:
		return errs.ErrNotAuthenticated
	case http.StatusNotFound:
		return errs.ErrNotFound
	case http.StatusConflict:
		return errs.ErrAlreadyExists
	case http.StatusTooManyRequests:
		return errs.ErrRateLimited
	}
	return nil
}

// Client calls the JSON API.
type Client struct {
	http *resty.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/api/v1").
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// SetToken sets the bearer token sent with every request; empty clears it.
func (c *Client) SetToken(token string) {
	if token == "" {
		c.http.Token = ""
		return
	}
	c.http.SetAuthToken(token)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx).SetError(&api.Error{})
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return toAPIError(resp)
	}
	return nil
}

func toAPIError(resp *resty.Response) error {
	e := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*api.Error); ok && body != nil {
		e.Message = body.Message
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(resp.String())
	}
	return e
}

// --- auth ---

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, email, password, name string) (api.Session, error) {
	var out api.Session
	err := c.do(ctx, http.MethodPost, "/auth/register", api.Credentials{Email: email, Password: password, Name: name}, &out)
	return out, err
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (api.Session, error) {
	var out api.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", api.Credentials{Email: email, Password: password}, &out)
	return out, err
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// RequestPasswordReset asks the server to mail a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/password-reset", api.PasswordResetRequest{Email: email}, nil)
}

// ConfirmPasswordReset sets a new password with a reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/password-reset/confirm", api.PasswordResetConfirm{Token: token, Password: password}, nil)
}

// Me returns the signed in user and profile.
func (c *Client) Me(ctx context.Context) (api.Identity, error) {
	var out api.Identity
	err := c.do(ctx, http.MethodGet, "/me", nil, &out)
	return out, err
}

// ChangeEmail updates the account email.
func (c *Client) ChangeEmail(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPut, "/account/email", api.EmailChange{Email: email}, nil)
}

// ChangePassword updates the account password.
func (c *Client) ChangePassword(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodPut, "/account/password", api.PasswordChange{Password: password}, nil)
}

// ChangeDisplayName updates the name shown to the user.
func (c *Client) ChangeDisplayName(ctx context.Context, name string) (api.Identity, error) {
	var out api.Identity
	err := c.do(ctx, http.MethodPut, "/account/display-name", api.DisplayNameChange{Name: name}, &out)
	return out, err
}

// --- notes ---

// Notes lists notes; empty arguments mean no filter.
func (c *Client) Notes(ctx context.Context, search, subject string) (api.NoteList, error) {
	q := url.Values{}
	if search != "" {
		q.Set("q", search)
	}
	if subject != "" {
		q.Set("subject", subject)
	}
	path := "/notes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out api.NoteList
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// CreateNote stores a note and returns the refreshed list.
func (c *Client) CreateNote(ctx context.Context, in api.NoteInput) (api.NoteList, error) {
	var out api.NoteList
	err := c.do(ctx, http.MethodPost, "/notes", in, &out)
	return out, err
}

// UpdateNote replaces a note.
func (c *Client) UpdateNote(ctx context.Context, id string, in api.NoteInput) (api.Note, error) {
	var out api.Note
	err := c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), in, &out)
	return out, err
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
}

// --- tasks ---

// Tasks lists tasks; empty arguments mean "all".
func (c *Client) Tasks(ctx context.Context, status, priority string) (api.TaskList, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if priority != "" {
		q.Set("priority", priority)
	}
	path := "/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out api.TaskList
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// CreateTask stores a task.
func (c *Client) CreateTask(ctx context.Context, in api.TaskInput) (api.Task, error) {
	var out api.Task
	err := c.do(ctx, http.MethodPost, "/tasks", in, &out)
	return out, err
}

// UpdateTask replaces a task.
func (c *Client) UpdateTask(ctx context.Context, id string, in api.TaskInput) (api.Task, error) {
	var out api.Task
	err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), in, &out)
	return out, err
}

// ToggleTask flips completion of a task.
func (c *Client) ToggleTask(ctx context.Context, id string) (api.Toggle, error) {
	var out api.Toggle
	err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/toggle", nil, &out)
	return out, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// --- resources ---

// Resources lists uploaded files, newest first.
func (c *Client) Resources(ctx context.Context) ([]api.Resource, error) {
	var out []api.Resource
	err := c.do(ctx, http.MethodGet, "/resources", nil, &out)
	return out, err
}

// Upload sends data as the multipart field "file".
func (c *Client) Upload(ctx context.Context, name string, data []byte) (api.Resource, error) {
	if name == "" || len(data) == 0 {
		return api.Resource{}, errs.Validation("please select a file")
	}
	var out api.Resource
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", name, bytes.NewReader(data)).
		SetResult(&out).
		SetError(&api.Error{}).
		Post("/resources")
	if err != nil {
		return api.Resource{}, fmt.Errorf("upload: %w", err)
	}
	if resp.IsError() {
		return api.Resource{}, toAPIError(resp)
	}
	return out, nil
}

// DeleteResource removes an uploaded file.
func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/resources/"+url.PathEscape(id), nil, nil)
}

// Activity returns the recent activity feed.
func (c *Client) Activity(ctx context.Context) ([]api.Activity, error) {
	var out []api.Activity
	err := c.do(ctx, http.MethodGet, "/activity", nil, &out)
	return out, err
}

// --- profile / home ---

// Profile returns the signed in profile.
func (c *Client) Profile(ctx context.Context) (api.Profile, error) {
	var out api.Profile
	err := c.do(ctx, http.MethodGet, "/profile", nil, &out)
	return out, err
}

// PatchProfile updates the set fields of the profile.
func (c *Client) PatchProfile(ctx context.Context, patch api.ProfilePatch) (api.Profile, error) {
	var out api.Profile
	err := c.do(ctx, http.MethodPatch, "/profile", patch, &out)
	return out, err
}

// Stats returns the study counters.
func (c *Client) Stats(ctx context.Context) (api.Stats, error) {
	var out api.Stats
	err := c.do(ctx, http.MethodGet, "/profile/stats", nil, &out)
	return out, err
}

// Home returns the dashboard summary.
func (c *Client) Home(ctx context.Context) (api.Summary, error) {
	var out api.Summary
	err := c.do(ctx, http.MethodGet, "/home", nil, &out)
	return out, err
}
