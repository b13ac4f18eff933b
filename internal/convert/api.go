// Package convert maps domain models to JSON wire types and back.
package convert

import (
	"fmt"
	"time"

	u "github.com/gofrs/uuid/v5"

	"github.com/and161185/studysync/internal/api"
	"github.com/and161185/studysync/internal/model"
)

func parseID(s string) (u.UUID, error) {
	var id u.UUID
	if err := id.UnmarshalText([]byte(s)); err != nil {
		return u.Nil, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

// --- account (server -> client) ---

// ToAPIIdentity converts the signed-in identity.
func ToAPIIdentity(id model.Identity) api.Identity {
	return api.Identity{
		User: api.User{
			ID:          id.User.ID.String(),
			Email:       id.User.Email,
			DisplayName: id.User.DisplayName,
		},
		Profile: ToAPIProfile(id.Profile),
	}
}

// ToAPIProfile converts a profile.
func ToAPIProfile(p model.Profile) api.Profile {
	return api.Profile{
		Name:            p.Name,
		Email:           p.Email,
		Bio:             p.Bio,
		Institution:     p.Institution,
		Program:         p.Program,
		Year:            p.Year,
		JoinDate:        p.JoinDate,
		LastActive:      p.LastActive,
		TotalNotes:      p.TotalNotes,
		CompletedTasks:  p.CompletedTasks,
		StudyStreak:     p.StudyStreak,
		LastNoteCreated: p.LastNoteCreated,
	}
}

// FromAPIProfilePatch validates field names of a patch.
func FromAPIProfilePatch(in api.ProfilePatch) (model.ProfilePatch, error) {
	out := make(model.ProfilePatch, len(in))
	for name, v := range in {
		f, err := model.ParseProfileField(name)
		if err != nil {
			return nil, err
		}
		out[f] = v
	}
	return out, nil
}

// --- notes ---

// ToAPINote converts a note.
func ToAPINote(n model.Note) api.Note {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return api.Note{
		ID:            n.ID.String(),
		Title:         n.Title,
		Content:       n.Content,
		Subject:       n.Subject,
		Tags:          tags,
		AttachmentURL: n.AttachmentURL,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// ToAPINotes converts a slice of notes.
func ToAPINotes(in []model.Note) []api.Note {
	out := make([]api.Note, 0, len(in))
	for _, n := range in {
		out = append(out, ToAPINote(n))
	}
	return out
}

// FromAPINote converts a wire note owned by owner.
func FromAPINote(owner u.UUID, in api.Note) (model.Note, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return model.Note{}, err
	}
	return model.Note{
		ID:            id,
		UserID:        owner,
		Title:         in.Title,
		Content:       in.Content,
		Subject:       in.Subject,
		Tags:          in.Tags,
		AttachmentURL: in.AttachmentURL,
		CreatedAt:     in.CreatedAt,
		UpdatedAt:     in.UpdatedAt,
	}, nil
}

// FromAPINotes converts a slice of wire notes.
func FromAPINotes(owner u.UUID, in []api.Note) ([]model.Note, error) {
	out := make([]model.Note, 0, len(in))
	for i, n := range in {
		m, err := FromAPINote(owner, n)
		if err != nil {
			return nil, fmt.Errorf("note[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// --- tasks ---

// ToAPITask converts a task; overdue is derived against today.
func ToAPITask(t model.Task, today time.Time) api.Task {
	return api.Task{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Subject:     t.Subject,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority.Display()),
		Completed:   t.Completed,
		Overdue:     t.IsOverdue(today),
		CreatedAt:   t.CreatedAt,
	}
}

// ToAPITasks converts a slice of tasks.
func ToAPITasks(in []model.Task, today time.Time) []api.Task {
	out := make([]api.Task, 0, len(in))
	for _, t := range in {
		out = append(out, ToAPITask(t, today))
	}
	return out
}

// FromAPITask converts a wire task owned by owner.
func FromAPITask(owner u.UUID, in api.Task) (model.Task, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return model.Task{}, err
	}
	return model.Task{
		ID:          id,
		UserID:      owner,
		Title:       in.Title,
		Description: in.Description,
		Subject:     in.Subject,
		DueDate:     in.DueDate,
		Priority:    model.Priority(in.Priority),
		Completed:   in.Completed,
		CreatedAt:   in.CreatedAt,
	}, nil
}

// FromAPITasks converts a slice of wire tasks.
func FromAPITasks(owner u.UUID, in []api.Task) ([]model.Task, error) {
	out := make([]model.Task, 0, len(in))
	for i, t := range in {
		m, err := FromAPITask(owner, t)
		if err != nil {
			return nil, fmt.Errorf("task[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// --- resources ---

// ToAPIResource converts resource metadata. The host-side id stays server side.
func ToAPIResource(r model.Resource) api.Resource {
	return api.Resource{
		ID:        r.ID.String(),
		Name:      r.Name,
		URL:       r.URL,
		MimeType:  r.MimeType,
		Size:      r.Size,
		CreatedAt: r.CreatedAt,
	}
}

// ToAPIResources converts a slice of resources.
func ToAPIResources(in []model.Resource) []api.Resource {
	out := make([]api.Resource, 0, len(in))
	for _, r := range in {
		out = append(out, ToAPIResource(r))
	}
	return out
}

// ToAPIActivity converts activity entries.
func ToAPIActivity(in []model.Activity) []api.Activity {
	out := make([]api.Activity, 0, len(in))
	for _, a := range in {
		out = append(out, api.Activity{
			ID:           a.ID.String(),
			Kind:         string(a.Kind),
			ResourceName: a.ResourceName,
			CreatedAt:    a.CreatedAt,
		})
	}
	return out
}

// --- stats / home ---

// ToAPIStats converts statistics.
func ToAPIStats(s model.Stats) api.Stats {
	return api.Stats{
		TotalNotes:     s.TotalNotes,
		CompletedTasks: s.CompletedTasks,
		PendingTasks:   s.PendingTasks,
		TotalTasks:     s.TotalTasks,
	}
}

// ToAPISummary converts the home summary.
func ToAPISummary(s model.Summary, today time.Time) api.Summary {
	return api.Summary{
		Name:           s.Name,
		RecentNotes:    ToAPINotes(s.RecentNotes),
		PendingTasks:   ToAPITasks(s.PendingTasks, today),
		Stats:          ToAPIStats(s.Stats),
		RecentActivity: ToAPIActivity(s.RecentActivity),
	}
}
