package client

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/convert"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
)

func ownerOf(s Session) (uuid.UUID, error) {
	if s.UserID == "" {
		return uuid.Nil, errs.ErrNotAuthenticated
	}
	id, err := uuid.FromString(s.UserID)
	if err != nil {
		return uuid.Nil, errs.ErrNotAuthenticated
	}
	return id, nil
}

// NotesPanel keeps the loaded notes and filters them locally.
type NotesPanel struct {
	api   *Client
	owner uuid.UUID

	All      []model.Note
	Subjects []string
	Filter   model.NoteFilter
}

// NewNotesPanel binds the panel to the session owner.
func NewNotesPanel(c *Client, s Session) (*NotesPanel, error) {
	owner, err := ownerOf(s)
	if err != nil {
		return nil, err
	}
	return &NotesPanel{api: c, owner: owner}, nil
}

// Load fetches every note of the owner.
func (p *NotesPanel) Load(ctx context.Context) error {
	list, err := p.api.Notes(ctx, "", "")
	if err != nil {
		return err
	}
	return p.replace(list)
}

func (p *NotesPanel) replace(list api.NoteList) error {
	notes, err := convert.FromAPINotes(p.owner, list.Notes)
	if err != nil {
		return err
	}
	p.All = notes
	p.Subjects = list.Subjects
	return nil
}

// Visible is All narrowed by Filter.
func (p *NotesPanel) Visible() []model.Note {
	return model.FilterNotes(p.owner, p.All, p.Filter)
}

// Create saves a note and takes the refreshed list from the response.
func (p *NotesPanel) Create(ctx context.Context, in api.NoteInput) error {
	list, err := p.api.CreateNote(ctx, in)
	if err != nil {
		return err
	}
	return p.replace(list)
}

// Update saves a note and swaps it in place.
func (p *NotesPanel) Update(ctx context.Context, id string, in api.NoteInput) error {
	n, err := p.api.UpdateNote(ctx, id, in)
	if err != nil {
		return err
	}
	m, err := convert.FromAPINote(p.owner, n)
	if err != nil {
		return err
	}
	for i := range p.All {
		if p.All[i].ID == m.ID {
			p.All[i] = m
		}
	}
	return nil
}

// Delete removes the note and drops it from All without refetching.
func (p *NotesPanel) Delete(ctx context.Context, id string) error {
	if err := p.api.DeleteNote(ctx, id); err != nil {
		return err
	}
	kept := p.All[:0]
	for _, n := range p.All {
		if n.ID.String() != id {
			kept = append(kept, n)
		}
	}
	p.All = kept
	return nil
}

// PlannerPanel keeps the loaded tasks and filters them locally.
type PlannerPanel struct {
	api   *Client
	owner uuid.UUID
	now   func() time.Time

	All    []model.Task
	Filter model.TaskFilter
}

// NewPlannerPanel binds a planner to the signed in user.
func NewPlannerPanel(c *Client, s Session) (*PlannerPanel, error) {
	owner, err := ownerOf(s)
	if err != nil {
		return nil, err
	}
	return &PlannerPanel{api: c, owner: owner, now: time.Now}, nil
}

// Load replaces All with the tasks on the server.
func (p *PlannerPanel) Load(ctx context.Context) error {
	list, err := p.api.Tasks(ctx, "", "")
	if err != nil {
		return err
	}
	tasks, err := convert.FromAPITasks(p.owner, list.Tasks)
	if err != nil {
		return err
	}
	p.All = tasks
	return nil
}

// Visible is All narrowed by Filter.
func (p *PlannerPanel) Visible() []model.Task {
	return model.FilterTasks(p.owner, p.All, p.Filter)
}

// Overdue counts overdue tasks among All, recomputed on every call.
func (p *PlannerPanel) Overdue() int {
	return model.OverdueCount(p.All, p.now())
}

// Create stores a task and puts it first.
func (p *PlannerPanel) Create(ctx context.Context, in api.TaskInput) error {
	t, err := p.api.CreateTask(ctx, in)
	if err != nil {
		return err
	}
	m, err := convert.FromAPITask(p.owner, t)
	if err != nil {
		return err
	}
	p.All = append([]model.Task{m}, p.All...)
	return nil
}

// Toggle flips completion and replaces the local copy with the server result.
func (p *PlannerPanel) Toggle(ctx context.Context, id string) (api.Toggle, error) {
	res, err := p.api.ToggleTask(ctx, id)
	if err != nil {
		return api.Toggle{}, err
	}
	m, err := convert.FromAPITask(p.owner, res.Task)
	if err != nil {
		return api.Toggle{}, err
	}
	for i := range p.All {
		if p.All[i].ID == m.ID {
			p.All[i] = m
		}
	}
	return res, nil
}

// Delete removes a task on the server and locally.
func (p *PlannerPanel) Delete(ctx context.Context, id string) error {
	if err := p.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	kept := p.All[:0]
	for _, t := range p.All {
		if t.ID.String() != id {
			kept = append(kept, t)
		}
	}
	p.All = kept
	return nil
}
