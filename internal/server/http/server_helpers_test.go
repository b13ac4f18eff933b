package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/studysync/internal/config"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/service"
)

const goodToken = "good-token"

// fakeAuth accepts goodToken only. Unused AuthService methods panic through the
// embedded nil interface.
type fakeAuth struct {
	service.AuthService
	uid, sid uuid.UUID

	authErr     error
	registerErr error
	signInErr   error
	signedOut   []uuid.UUID
	lastIP      string
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (uuid.UUID, uuid.UUID, error) {
	if f.authErr != nil {
		return uuid.Nil, uuid.Nil, f.authErr
	}
	if token != goodToken {
		return uuid.Nil, uuid.Nil, errs.ErrNotAuthenticated
	}
	return f.uid, f.sid, nil
}
func (f *fakeAuth) identity() model.Identity {
	return model.Identity{User: model.User{ID: f.uid, Email: "a@x.io"}, Profile: model.Profile{UserID: f.uid, Name: "Ann"}}
}
func (f *fakeAuth) Register(_ context.Context, email, password, name string) (model.Tokens, model.Identity, error) {
	if f.registerErr != nil {
		return model.Tokens{}, model.Identity{}, f.registerErr
	}
	return model.Tokens{AccessToken: goodToken, SessionID: f.sid, ExpiresAt: time.Now().Add(time.Hour)}, f.identity(), nil
}
func (f *fakeAuth) SignIn(_ context.Context, email, password, ip string) (model.Tokens, model.Identity, error) {
	f.lastIP = ip
	if f.signInErr != nil {
		return model.Tokens{}, model.Identity{}, f.signInErr
	}
	return model.Tokens{AccessToken: goodToken, SessionID: f.sid}, f.identity(), nil
}
func (f *fakeAuth) SignOut(_ context.Context, sid uuid.UUID) error {
	f.signedOut = append(f.signedOut, sid)
	return nil
}
func (f *fakeAuth) Current(_ context.Context, uid uuid.UUID) (model.Identity, error) {
	return f.identity(), nil
}

type fakeNotes struct {
	service.NoteService
	notes     []model.Note
	listCalls []model.NoteFilter
}

func (f *fakeNotes) List(_ context.Context, owner uuid.UUID, flt model.NoteFilter) ([]model.Note, error) {
	f.listCalls = append(f.listCalls, flt)
	return model.FilterNotes(owner, f.notes, flt), nil
}
func (f *fakeNotes) Create(_ context.Context, owner uuid.UUID, in model.NoteInput) ([]model.Note, error) {
	if in.Title == "" || in.Content == "" {
		return nil, errs.Validation("please fill in both title and content")
	}
	f.notes = append([]model.Note{{ID: uuid.Must(uuid.NewV4()), UserID: owner, Title: in.Title, Content: in.Content, Subject: "General"}}, f.notes...)
	return f.notes, nil
}
func (f *fakeNotes) Delete(_ context.Context, _, id uuid.UUID) error {
	return errs.ErrNotFound
}

type fakeTasks struct {
	service.TaskService
	tasks []model.Task
}

func (f *fakeTasks) List(_ context.Context, owner uuid.UUID, flt model.TaskFilter) ([]model.Task, error) {
	if err := flt.Validate(); err != nil {
		return nil, errs.Validation(err.Error())
	}
	return model.FilterTasks(owner, f.tasks, flt), nil
}
func (f *fakeTasks) ToggleCompletion(_ context.Context, owner, id uuid.UUID) (service.ToggleResult, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id && f.tasks[i].UserID == owner {
			f.tasks[i].Completed = !f.tasks[i].Completed
			res := service.ToggleResult{Task: f.tasks[i]}
			if f.tasks[i].Completed {
				res.Celebrate, res.Message = true, service.CompletionMessage
			}
			return res, nil
		}
	}
	return service.ToggleResult{}, errs.ErrNotFound
}

type fakeResources struct {
	service.ResourceService
	uploadErr error
	got       model.Upload
}

func (f *fakeResources) Upload(_ context.Context, owner uuid.UUID, up model.Upload) (model.Resource, error) {
	if f.uploadErr != nil {
		return model.Resource{}, f.uploadErr
	}
	f.got = up
	return model.Resource{ID: uuid.Must(uuid.NewV4()), UserID: owner, Name: up.Name, URL: "https://cdn.test/" + up.Name, PublicID: "secret-pid", Size: int64(len(up.Data))}, nil
}

type fakeProfile struct {
	service.ProfileService
	patched model.ProfilePatch
}

func (f *fakeProfile) Save(_ context.Context, owner uuid.UUID, patch model.ProfilePatch) (model.Profile, error) {
	f.patched = patch
	p := model.Profile{UserID: owner}
	patch.Apply(&p)
	return p, nil
}

type panicDashboard struct{ service.DashboardService }

func (panicDashboard) Summary(context.Context, uuid.UUID) (model.Summary, error) { panic("boom") }

type fixture struct {
	srv       *httptest.Server
	auth      *fakeAuth
	notes     *fakeNotes
	tasks     *fakeTasks
	resources *fakeResources
	profile   *fakeProfile
}

func newFixture(t *testing.T, ping func(context.Context) error) *fixture {
	t.Helper()
	f := &fixture{
		auth:      &fakeAuth{uid: uuid.Must(uuid.NewV4()), sid: uuid.Must(uuid.NewV4())},
		notes:     &fakeNotes{},
		tasks:     &fakeTasks{},
		resources: &fakeResources{},
		profile:   &fakeProfile{},
	}
	s := New(Services{
		Auth:      f.auth,
		Notes:     f.notes,
		Tasks:     f.tasks,
		Resources: f.resources,
		Profile:   f.profile,
		Dashboard: panicDashboard{},
	}, Options{
		MaxUploadBytes: 1 << 20,
		CORS:           config.CORSConfig{AllowedOrigins: "https://app.test", AllowedMethods: "GET,POST", AllowedHeaders: "Authorization", MaxAge: 60},
		Ping:           ping,
	}, zaptest.NewLogger(t))
	f.srv = httptest.NewServer(s.Handler())
	t.Cleanup(f.srv.Close)
	return f
}

// do sends a JSON request and returns the status and raw body.
func (f *fixture) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, req)
}

func send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, b
}

func mustDecode(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
}
