package service

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/limiter"
	"github.com/and161185/studysync/internal/mailer"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
)

type fakeUsers struct {
	byID map[uuid.UUID]*model.User

	createErr error
	updateErr error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uuid.UUID]*model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, x := range f.byID {
		if x.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	cpy := *u
	f.byID[u.ID] = &cpy
	return nil
}
func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}
func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}
func (f *fakeUsers) UpdateEmail(_ context.Context, id uuid.UUID, email string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, u := range f.byID {
		if u.Email == email && u.ID != id {
			return errs.ErrAlreadyExists
		}
	}
	u, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.Email = email
	return nil
}
func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash, salt []byte) error {
	u, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.PwdHash, u.Salt = hash, salt
	return nil
}
func (f *fakeUsers) UpdateDisplayName(_ context.Context, id uuid.UUID, name string) error {
	u, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.DisplayName = name
	return nil
}

type fakeSessions struct {
	byID      map[uuid.UUID]model.Session
	deleteErr error
}

var _ repository.SessionRepository = (*fakeSessions)(nil)

func newFakeSessions() *fakeSessions { return &fakeSessions{byID: map[uuid.UUID]model.Session{}} }

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	f.byID[s.ID] = *s
	return nil
}
func (f *fakeSessions) Get(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &s, nil
}
func (f *fakeSessions) Delete(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, id)
	return nil
}
func (f *fakeSessions) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for id, s := range f.byID {
		if s.UserID == userID {
			delete(f.byID, id)
		}
	}
	return nil
}

type fakeResets struct {
	users    *fakeUsers
	sessions *fakeSessions
	rows     []*model.PasswordReset
	used     map[int]bool
}

var _ repository.ResetRepository = (*fakeResets)(nil)

func (f *fakeResets) Create(_ context.Context, r *model.PasswordReset) error {
	cpy := *r
	f.rows = append(f.rows, &cpy)
	return nil
}
func (f *fakeResets) Redeem(ctx context.Context, tokenHash []byte, now time.Time, pwdHash, salt []byte) (uuid.UUID, error) {
	if f.used == nil {
		f.used = map[int]bool{}
	}
	for i, r := range f.rows {
		if !bytes.Equal(r.TokenHash, tokenHash) || f.used[i] || !now.Before(r.ExpiresAt) {
			continue
		}
		f.used[i] = true
		if err := f.users.UpdatePassword(ctx, r.UserID, pwdHash, salt); err != nil {
			return uuid.Nil, err
		}
		_ = f.sessions.DeleteByUser(ctx, r.UserID)
		return r.UserID, nil
	}
	return uuid.Nil, errs.ErrInvalidResetToken
}

type fakeProfiles struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Profile

	putErr   error
	getErr   error
	addErr   error
	touchErr error

	puts     int
	counters map[uuid.UUID][2]int
}

var _ repository.ProfileRepository = (*fakeProfiles)(nil)

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byID: map[uuid.UUID]*model.Profile{}, counters: map[uuid.UUID][2]int{}}
}

func (f *fakeProfiles) Get(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *p
	return &c, nil
}
func (f *fakeProfiles) Put(_ context.Context, p *model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	c := *p
	f.byID[p.UserID] = &c
	return nil
}
func (f *fakeProfiles) Patch(_ context.Context, id uuid.UUID, patch model.ProfilePatch) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	patch.Apply(p)
	c := *p
	return &c, nil
}
func (f *fakeProfiles) Touch(_ context.Context, id uuid.UUID, at time.Time, streak int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.touchErr != nil {
		return f.touchErr
	}
	if p, ok := f.byID[id]; ok {
		p.LastActive, p.StudyStreak = at, streak
	}
	return nil
}
func (f *fakeProfiles) AddNotes(_ context.Context, id uuid.UUID, delta int, at *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	p, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	p.TotalNotes = max(0, p.TotalNotes+delta)
	if at != nil {
		p.LastNoteCreated = at
	}
	return nil
}
func (f *fakeProfiles) SetCounters(_ context.Context, id uuid.UUID, notes, completed int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[id] = [2]int{notes, completed}
	if p, ok := f.byID[id]; ok {
		p.TotalNotes, p.CompletedTasks = notes, completed
	}
	return nil
}

type fakeNotes struct {
	rows      []model.Note
	createErr error
	listErr   error
	seq       int
}

var _ repository.NoteRepository = (*fakeNotes)(nil)

func (f *fakeNotes) Create(_ context.Context, n *model.Note) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	n.CreatedAt = time.Unix(int64(f.seq), 0).UTC()
	n.UpdatedAt = n.CreatedAt
	f.rows = append(f.rows, *n)
	return nil
}
func (f *fakeNotes) Update(_ context.Context, n *model.Note) error {
	for i := range f.rows {
		if f.rows[i].ID == n.ID && f.rows[i].UserID == n.UserID {
			n.CreatedAt = f.rows[i].CreatedAt
			f.rows[i] = *n
			return nil
		}
	}
	return errs.ErrNotFound
}
func (f *fakeNotes) Delete(_ context.Context, owner, id uuid.UUID) error {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == owner {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}
func (f *fakeNotes) List(_ context.Context, owner uuid.UUID, q repository.NoteQuery) ([]model.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Note
	for _, n := range f.rows {
		if n.UserID != owner {
			continue
		}
		if q.Subject != "" && q.Subject != model.SubjectAll && n.Subject != q.Subject {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

type fakeTasks struct {
	rows      []model.Task
	createErr error
	setErr    error
}

var _ repository.TaskRepository = (*fakeTasks)(nil)

func (f *fakeTasks) Create(_ context.Context, t *model.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, *t)
	return nil
}
func (f *fakeTasks) find(owner, id uuid.UUID) int {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == owner {
			return i
		}
	}
	return -1
}
func (f *fakeTasks) Get(_ context.Context, owner, id uuid.UUID) (*model.Task, error) {
	i := f.find(owner, id)
	if i < 0 {
		return nil, errs.ErrNotFound
	}
	t := f.rows[i]
	return &t, nil
}
func (f *fakeTasks) Update(_ context.Context, t *model.Task) error {
	i := f.find(t.UserID, t.ID)
	if i < 0 {
		return errs.ErrNotFound
	}
	t.Completed, t.CreatedAt = f.rows[i].Completed, f.rows[i].CreatedAt
	f.rows[i] = *t
	return nil
}
func (f *fakeTasks) SetCompleted(_ context.Context, owner, id uuid.UUID, completed bool) (*model.Task, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	i := f.find(owner, id)
	if i < 0 {
		return nil, errs.ErrNotFound
	}
	f.rows[i].Completed = completed
	t := f.rows[i]
	return &t, nil
}
func (f *fakeTasks) Delete(_ context.Context, owner, id uuid.UUID) error {
	i := f.find(owner, id)
	if i < 0 {
		return errs.ErrNotFound
	}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return nil
}
func (f *fakeTasks) List(_ context.Context, owner uuid.UUID, q repository.TaskQuery) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.rows {
		if t.UserID == owner && q.Filter.Match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

type fakeResources struct {
	rows      []model.Resource
	createErr error
	deleteErr error
}

var _ repository.ResourceRepository = (*fakeResources)(nil)

func (f *fakeResources) Create(_ context.Context, r *model.Resource) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, *r)
	return nil
}
func (f *fakeResources) List(_ context.Context, owner uuid.UUID) ([]model.Resource, error) {
	var out []model.Resource
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == owner {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}
func (f *fakeResources) Delete(_ context.Context, owner, id uuid.UUID) (string, bool, error) {
	if f.deleteErr != nil {
		return "", false, f.deleteErr
	}
	for i, r := range f.rows {
		if r.ID == id && r.UserID == owner {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return r.Name, true, nil
		}
	}
	return "", false, nil
}

type fakeActivity struct {
	rows      []model.Activity
	appendErr error
}

var _ repository.ActivityRepository = (*fakeActivity)(nil)

func (f *fakeActivity) Append(_ context.Context, a *model.Activity) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rows = append(f.rows, *a)
	return nil
}
func (f *fakeActivity) Recent(_ context.Context, owner uuid.UUID, limit int) ([]model.Activity, error) {
	var out []model.Activity
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == owner {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	successErr error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return l.successErr
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}

type fakeMailer struct {
	to, token string
	sent      int
}

var _ mailer.Mailer = (*fakeMailer)(nil)

func (m *fakeMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.sent++
	m.to, m.token = email, token
	return nil
}

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }
