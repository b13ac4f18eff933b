package httpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{errs.Validation("x"), http.StatusBadRequest},
		{errs.ErrAlreadyExists, http.StatusConflict},
		{errs.ErrUnauthorized, http.StatusUnauthorized},
		{errs.ErrNotAuthenticated, http.StatusUnauthorized},
		{errs.ErrWeakPassword, http.StatusBadRequest},
		{errs.ErrInvalidEmail, http.StatusBadRequest},
		{fmt.Errorf("update note: %w", errs.ErrNotFound), http.StatusNotFound},
		{errs.ErrRateLimited, http.StatusTooManyRequests},
		{&errs.UploadError{Status: 400, Message: "bad preset"}, http.StatusBadGateway},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v)=%d, want %d", tt.err, got, tt.want)
		}
	}
	if _, msg := statusFor(errors.New("db exploded")); strings.Contains(msg, "db") {
		t.Fatalf("internal details must not leak: %q", msg)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	if code, _ := f.do(t, http.MethodGet, "/healthz", "", nil); code != http.StatusOK {
		t.Fatalf("healthz=%d", code)
	}

	down := newFixture(t, func(context.Context) error { return errors.New("conn refused") })
	if code, _ := down.do(t, http.MethodGet, "/healthz", "", nil); code != http.StatusServiceUnavailable {
		t.Fatalf("healthz with failing db=%d", code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	code, body := f.do(t, http.MethodPost, "/api/v1/auth/register", "", api.Credentials{Email: "a@x.io", Password: "secret1"})
	if code != http.StatusCreated {
		t.Fatalf("register=%d %s", code, body)
	}
	var sess api.Session
	mustDecode(t, body, &sess)
	if sess.AccessToken != goodToken || sess.Identity.Profile.Name != "Ann" {
		t.Fatalf("session mismatch: %+v", sess)
	}

	f.auth.registerErr = errs.ErrAlreadyExists
	code, body = f.do(t, http.MethodPost, "/api/v1/auth/register", "", api.Credentials{Email: "a@x.io", Password: "secret1"})
	var apiErr api.Error
	mustDecode(t, body, &apiErr)
	if code != http.StatusConflict || apiErr.Code != http.StatusConflict || apiErr.Message != errs.ErrAlreadyExists.Error() {
		t.Fatalf("duplicate: %d %+v", code, apiErr)
	}

	f.auth.signInErr = errs.ErrRateLimited
	if code, _ := f.do(t, http.MethodPost, "/api/v1/auth/login", "", api.Credentials{Email: "a@x.io"}); code != http.StatusTooManyRequests {
		t.Fatalf("rate limited login=%d", code)
	}
	if f.auth.lastIP != "127.0.0.1" {
		t.Fatalf("client ip=%q", f.auth.lastIP)
	}

	req, _ := http.NewRequest(http.MethodPost, f.srv.URL+"/api/v1/auth/login", strings.NewReader("{"))
	if code, _ := send(t, req); code != http.StatusBadRequest {
		t.Fatalf("malformed body=%d", code)
	}
}

func TestProtectedRoutes(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	if code, _ := f.do(t, http.MethodGet, "/api/v1/me", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous /me=%d", code)
	}
	if code, _ := f.do(t, http.MethodGet, "/api/v1/me", "forged", nil); code != http.StatusUnauthorized {
		t.Fatalf("bad token /me=%d", code)
	}
	code, body := f.do(t, http.MethodGet, "/api/v1/me", goodToken, nil)
	var id api.Identity
	mustDecode(t, body, &id)
	if code != http.StatusOK || id.User.ID != f.auth.uid.String() {
		t.Fatalf("/me=%d %+v", code, id)
	}
}

func TestProtectedRoutes_SessionStoreDown(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	f.auth.authErr = errors.New("sessions: get: connection refused")

	code, body := f.do(t, http.MethodGet, "/api/v1/me", goodToken, nil)
	if code != http.StatusInternalServerError {
		t.Fatalf("/me with failing session store=%d, want 500", code)
	}
	var e api.Error
	mustDecode(t, body, &e)
	if e.Message != "internal server error" {
		t.Fatalf("backend detail leaked: %q", e.Message)
	}
}

func TestLogoutAlwaysNoContent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	for _, tok := range []string{"", "forged", goodToken} {
		if code, _ := f.do(t, http.MethodPost, "/api/v1/auth/logout", tok, nil); code != http.StatusNoContent {
			t.Fatalf("logout(%q)=%d", tok, code)
		}
	}
	if len(f.auth.signedOut) != 1 || f.auth.signedOut[0] != f.auth.sid {
		t.Fatalf("only the valid session is revoked: %v", f.auth.signedOut)
	}
}

func TestNotesEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	uid := f.auth.uid
	f.notes.notes = []model.Note{
		{ID: uuid.Must(uuid.NewV4()), UserID: uid, Title: "Limits", Subject: "Math"},
		{ID: uuid.Must(uuid.NewV4()), UserID: uid, Title: "Rome", Subject: "History"},
	}

	code, body := f.do(t, http.MethodGet, "/api/v1/notes?subject=Math", goodToken, nil)
	var list api.NoteList
	mustDecode(t, body, &list)
	if code != http.StatusOK || len(list.Notes) != 1 {
		t.Fatalf("filtered list=%d %+v", code, list)
	}
	if strings.Join(list.Subjects, ",") != "all,Math,History" {
		t.Fatalf("subjects must come from every note: %v", list.Subjects)
	}
	if len(f.notes.listCalls) != 2 {
		t.Fatalf("filtered listing needs the unfiltered one too, calls=%d", len(f.notes.listCalls))
	}

	code, body = f.do(t, http.MethodPost, "/api/v1/notes", goodToken, api.NoteInput{Title: "only title"})
	var apiErr api.Error
	mustDecode(t, body, &apiErr)
	if code != http.StatusBadRequest || !strings.Contains(apiErr.Message, "title and content") {
		t.Fatalf("validation=%d %+v", code, apiErr)
	}

	code, body = f.do(t, http.MethodPost, "/api/v1/notes", goodToken, api.NoteInput{Title: "t", Content: "c"})
	mustDecode(t, body, &list)
	if code != http.StatusCreated || len(list.Notes) != 3 || list.Notes[0].Title != "t" {
		t.Fatalf("create=%d %+v", code, list)
	}

	if code, _ := f.do(t, http.MethodDelete, "/api/v1/notes/not-a-uuid", goodToken, nil); code != http.StatusBadRequest {
		t.Fatalf("bad id=%d", code)
	}
	if code, _ := f.do(t, http.MethodDelete, "/api/v1/notes/"+uuid.Must(uuid.NewV4()).String(), goodToken, nil); code != http.StatusNotFound {
		t.Fatalf("missing note=%d", code)
	}
}

func TestTasksEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	id := uuid.Must(uuid.NewV4())
	f.tasks.tasks = []model.Task{{ID: id, UserID: f.auth.uid, Title: "Essay", DueDate: "2000-01-01"}}

	code, body := f.do(t, http.MethodGet, "/api/v1/tasks?status=pending", goodToken, nil)
	var list api.TaskList
	mustDecode(t, body, &list)
	if code != http.StatusOK || len(list.Tasks) != 1 || !list.Tasks[0].Overdue || list.Overdue != 1 || list.Tasks[0].Priority != "medium" {
		t.Fatalf("list=%d %+v", code, list)
	}
	if code, _ := f.do(t, http.MethodGet, "/api/v1/tasks?status=archived", goodToken, nil); code != http.StatusBadRequest {
		t.Fatalf("bad filter=%d", code)
	}

	code, body = f.do(t, http.MethodPost, "/api/v1/tasks/"+id.String()+"/toggle", goodToken, nil)
	var tg api.Toggle
	mustDecode(t, body, &tg)
	if code != http.StatusOK || !tg.Celebrate || tg.Message != "Congratulations! Task completed." || tg.Task.Overdue {
		t.Fatalf("toggle on=%d %+v", code, tg)
	}
	_, body = f.do(t, http.MethodPost, "/api/v1/tasks/"+id.String()+"/toggle", goodToken, nil)
	tg = api.Toggle{}
	mustDecode(t, body, &tg)
	if tg.Celebrate || tg.Task.Completed {
		t.Fatalf("toggle off must not celebrate: %+v", tg)
	}
}

func multipartUpload(t *testing.T, url, field, name string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()
	req, _ := http.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+goodToken)
	return req
}

func TestUploadResource(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	url := f.srv.URL + "/api/v1/resources"

	code, body := send(t, multipartUpload(t, url, "file", "notes.txt", []byte("hello world")))
	var res api.Resource
	mustDecode(t, body, &res)
	if code != http.StatusCreated || res.Name != "notes.txt" || res.Size != 11 {
		t.Fatalf("upload=%d %+v", code, res)
	}
	if strings.Contains(string(body), "secret-pid") {
		t.Fatalf("host-side id must not be exposed")
	}
	if !strings.HasPrefix(f.resources.got.MimeType, "text/plain") {
		t.Fatalf("mime sniffed as %q", f.resources.got.MimeType)
	}

	if code, _ := send(t, multipartUpload(t, url, "other", "a.txt", []byte("x"))); code != http.StatusBadRequest {
		t.Fatalf("missing file field=%d", code)
	}

	f.resources.uploadErr = &errs.UploadError{Status: 400, Message: "Upload preset not found"}
	code, body = send(t, multipartUpload(t, url, "file", "a.txt", []byte("x")))
	var apiErr api.Error
	mustDecode(t, body, &apiErr)
	if code != http.StatusBadGateway || !strings.Contains(apiErr.Message, "Upload preset not found") {
		t.Fatalf("host failure=%d %+v", code, apiErr)
	}
}

func TestPatchProfile(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	code, body := f.do(t, http.MethodPatch, "/api/v1/profile", goodToken, api.ProfilePatch{"bio": "hi", "year": "2"})
	var p api.Profile
	mustDecode(t, body, &p)
	if code != http.StatusOK || p.Bio != "hi" || p.Year != "2" || len(f.profile.patched) != 2 {
		t.Fatalf("patch=%d %+v", code, p)
	}
	if code, _ := f.do(t, http.MethodPatch, "/api/v1/profile", goodToken, api.ProfilePatch{"totalNotes": "99"}); code != http.StatusBadRequest {
		t.Fatalf("counter patch=%d", code)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	code, body := f.do(t, http.MethodGet, "/api/v1/home", goodToken, nil)
	var apiErr api.Error
	mustDecode(t, body, &apiErr)
	if code != http.StatusInternalServerError || apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("panic=%d %+v", code, apiErr)
	}
	if code, _ := f.do(t, http.MethodGet, "/healthz", "", nil); code != http.StatusOK {
		t.Fatalf("server must survive a panic")
	}
}

func TestCORSPreflightAndMetrics(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, f.srv.URL+"/api/v1/notes", nil)
	req.Header.Set("Origin", "https://app.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "https://app.test" {
		t.Fatalf("preflight=%d origin=%q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"))
	}

	_, _ = f.do(t, http.MethodGet, "/healthz", "", nil)
	code, body := f.do(t, http.MethodGet, "/metrics", "", nil)
	if code != http.StatusOK || !strings.Contains(string(body), "studysync_http_requests_total") {
		t.Fatalf("metrics=%d", code)
	}
}
