package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
)

func TestNewPanels_NeedSession(t *testing.T) {
	if _, err := NewNotesPanel(nil, Session{}); !errors.Is(err, errs.ErrNotAuthenticated) {
		t.Fatalf("notes: %v", err)
	}
	if _, err := NewPlannerPanel(nil, Session{UserID: "not-a-uuid"}); !errors.Is(err, errs.ErrNotAuthenticated) {
		t.Fatalf("planner: %v", err)
	}
}

func TestNotesPanel_FilterAndLocalDelete(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	n1, n2 := uuid.Must(uuid.NewV4()).String(), uuid.Must(uuid.NewV4()).String()
	lists := 0

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/notes", func(w http.ResponseWriter, _ *http.Request) {
		lists++
		writeJSON(w, http.StatusOK, api.NoteList{
			Notes: []api.Note{
				{ID: n1, Title: "Eigenvalues", Subject: "Math", Tags: []string{"exam"}},
				{ID: n2, Title: "Rome", Subject: "History"},
			},
			Subjects: []string{"all", "Math", "History"},
		})
	})
	mux.HandleFunc("DELETE /api/v1/notes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux)

	p, err := NewNotesPanel(c, Session{UserID: owner.String()})
	if err != nil {
		t.Fatalf("NewNotesPanel: %v", err)
	}
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	p.Filter = model.NoteFilter{Search: "EXAM"}
	if got := p.Visible(); len(got) != 1 || got[0].ID.String() != n1 {
		t.Fatalf("Visible=%+v", got)
	}

	if err := p.Delete(context.Background(), n1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(p.All) != 1 || p.All[0].ID.String() != n2 || lists != 1 {
		t.Fatalf("delete must drop locally without refetch: all=%d lists=%d", len(p.All), lists)
	}
}

func TestPlannerPanel_ToggleAndOverdue(t *testing.T) {
	owner := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4()).String()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/tasks", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, api.TaskList{Tasks: []api.Task{
			{ID: id, Title: "Essay", DueDate: "2026-01-01", Priority: "high"},
			{ID: uuid.Must(uuid.NewV4()).String(), Title: "Read", DueDate: "2099-01-01", Priority: "low"},
		}})
	})
	mux.HandleFunc("POST /api/v1/tasks/{id}/toggle", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.Toggle{
			Task:      api.Task{ID: r.PathValue("id"), Title: "Essay", DueDate: "2026-01-01", Priority: "high", Completed: true},
			Celebrate: true,
			Message:   "Congratulations! Task completed.",
		})
	})
	c := newTestClient(t, mux)

	p, err := NewPlannerPanel(c, Session{UserID: owner.String()})
	if err != nil {
		t.Fatalf("NewPlannerPanel: %v", err)
	}
	p.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Overdue() != 1 {
		t.Fatalf("Overdue=%d", p.Overdue())
	}
	p.Filter = model.TaskFilter{Status: model.StatusPending, Priority: "high"}
	if len(p.Visible()) != 1 {
		t.Fatalf("Visible=%+v", p.Visible())
	}

	res, err := p.Toggle(context.Background(), id)
	if err != nil || !res.Celebrate {
		t.Fatalf("Toggle: %+v %v", res, err)
	}
	if p.Overdue() != 0 || len(p.Visible()) != 0 {
		t.Fatalf("completed task must leave pending view and overdue count")
	}
}
