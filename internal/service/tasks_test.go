package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
)

type countingParty struct{ calls int }

func (c *countingParty) Celebrate(context.Context, model.Task) { c.calls++ }

func TestTasks_Create(t *testing.T) {
	t.Parallel()
	repo := &fakeTasks{}
	svc := NewTaskService(repo, nil, zap.NewNop())
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(at)
	owner := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	task, err := svc.Create(ctx, owner, model.TaskInput{Title: "Essay", DueDate: "2026-03-05"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Priority != model.PriorityMedium || task.Subject != model.DefaultSubject || task.Completed || !task.CreatedAt.Equal(at) {
		t.Fatalf("defaults not applied: %+v", task)
	}

	bad := []model.TaskInput{
		{Title: "x"},
		{DueDate: "2026-03-05"},
		{Title: "x", DueDate: "05/03/2026"},
		{Title: "x", DueDate: "2026-03-05", Priority: "urgent"},
	}
	for _, in := range bad {
		if _, err := svc.Create(ctx, owner, in); !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("input %+v: want validation error, got %v", in, err)
		}
	}
	if len(repo.rows) != 1 {
		t.Fatalf("invalid input must not be stored")
	}
}

func TestTasks_ToggleCompletion(t *testing.T) {
	t.Parallel()
	repo := &fakeTasks{}
	party := &countingParty{}
	svc := NewTaskService(repo, party, zap.NewNop())
	owner := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	task, err := svc.Create(ctx, owner, model.TaskInput{Title: "Lab", DueDate: "2026-03-05", Priority: "high"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.ToggleCompletion(ctx, owner, task.ID)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !res.Task.Completed || !res.Celebrate || res.Message != CompletionMessage || party.calls != 1 {
		t.Fatalf("completion must celebrate: %+v calls=%d", res, party.calls)
	}

	res, err = svc.ToggleCompletion(ctx, owner, task.ID)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if res.Task.Completed || res.Celebrate || res.Message != "" || party.calls != 1 {
		t.Fatalf("reopening must not celebrate: %+v", res)
	}

	if _, err := svc.ToggleCompletion(ctx, uuid.Must(uuid.NewV4()), task.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("foreign toggle: %v", err)
	}
	repo.setErr = errors.New("db down")
	if _, err := svc.ToggleCompletion(ctx, owner, task.ID); err == nil {
		t.Fatalf("want storage error")
	}
}

func TestTasks_ListAndFilters(t *testing.T) {
	t.Parallel()
	repo := &fakeTasks{}
	svc := NewTaskService(repo, nil, zap.NewNop())
	owner := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, in := range []model.TaskInput{
		{Title: "a", DueDate: "2026-03-02", Priority: "high"},
		{Title: "b", DueDate: "2026-03-03", Priority: "low"},
		{Title: "c", DueDate: "2026-03-04"},
	} {
		svc.now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		if _, err := svc.Create(ctx, owner, in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	repo.rows[0].Completed = true

	all, err := svc.List(ctx, owner, model.TaskFilter{})
	if err != nil || len(all) != 3 || all[0].Title != "c" {
		t.Fatalf("list must be newest first: %+v %v", all, err)
	}
	pending, _ := svc.List(ctx, owner, model.TaskFilter{Status: model.StatusPending})
	if len(pending) != 2 {
		t.Fatalf("pending=%d", len(pending))
	}
	medium, _ := svc.List(ctx, owner, model.TaskFilter{Priority: "medium", Status: "all"})
	if len(medium) != 1 || medium[0].Title != "c" {
		t.Fatalf("medium filter: %+v", medium)
	}
	if _, err := svc.List(ctx, owner, model.TaskFilter{Status: "archived"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("bad filter: %v", err)
	}
	if _, err := svc.List(ctx, uuid.Nil, model.TaskFilter{}); !errors.Is(err, errs.ErrNotAuthenticated) {
		t.Fatalf("anonymous: %v", err)
	}
}

func TestTasks_UpdateDelete(t *testing.T) {
	t.Parallel()
	repo := &fakeTasks{}
	svc := NewTaskService(repo, nil, zap.NewNop())
	owner := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	task, _ := svc.Create(ctx, owner, model.TaskInput{Title: "a", DueDate: "2026-03-02"})
	if _, err := svc.ToggleCompletion(ctx, owner, task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	up, err := svc.Update(ctx, owner, task.ID, model.TaskInput{Title: "a2", DueDate: "2026-04-01", Priority: "low"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if up.Title != "a2" || up.Priority != model.PriorityLow || !up.Completed {
		t.Fatalf("update must keep completion: %+v", up)
	}

	if err := svc.Delete(ctx, owner, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, owner, task.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
