package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
)

// NoteService manages the notes of a user.
type NoteService interface {
	List(ctx context.Context, owner uuid.UUID, f model.NoteFilter) ([]model.Note, error)
	// Create stores a note and returns the owner's refreshed list.
	Create(ctx context.Context, owner uuid.UUID, in model.NoteInput) ([]model.Note, error)
	Update(ctx context.Context, owner, id uuid.UUID, in model.NoteInput) (model.Note, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// NoteServiceImpl implements NoteService.
type NoteServiceImpl struct {
	notes    repository.NoteRepository
	profiles repository.ProfileRepository
	log      *zap.Logger
	now      Clock
}

// NewNoteService constructs NoteService.
func NewNoteService(notes repository.NoteRepository, profiles repository.ProfileRepository, log *zap.Logger) *NoteServiceImpl {
	return &NoteServiceImpl{notes: notes, profiles: profiles, log: log.With(zap.String("component", "notes")), now: time.Now}
}

func validateNote(in model.NoteInput) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return errs.Validation("please fill in both title and content")
	}
	return nil
}

func subjectOrDefault(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return model.DefaultSubject
}

// List returns the owner's notes newest first, narrowed by f.
func (s *NoteServiceImpl) List(ctx context.Context, owner uuid.UUID, f model.NoteFilter) ([]model.Note, error) {
	if owner == uuid.Nil {
		return nil, errs.ErrNotAuthenticated
	}
	notes, err := s.notes.List(ctx, owner, repository.NoteQuery{Subject: f.Subject})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return model.FilterNotes(owner, notes, f), nil
}

// Create validates before any write, stores the note, bumps the profile counter
// (best-effort) and refetches the list.
func (s *NoteServiceImpl) Create(ctx context.Context, owner uuid.UUID, in model.NoteInput) ([]model.Note, error) {
	if owner == uuid.Nil {
		return nil, errs.ErrNotAuthenticated
	}
	if err := validateNote(in); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	n := &model.Note{
		ID:      id,
		UserID:  owner,
		Title:   in.Title,
		Content: in.Content,
		Subject: subjectOrDefault(in.Subject),
		Tags:    model.ParseTags(in.Tags),
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	at := s.now()
	followUp(ctx, s.log, "note counter +1", func(ctx context.Context) error {
		return s.profiles.AddNotes(ctx, owner, 1, &at)
	})

	return s.List(ctx, owner, model.NoteFilter{})
}

// Update replaces the editable fields of an owned note.
func (s *NoteServiceImpl) Update(ctx context.Context, owner, id uuid.UUID, in model.NoteInput) (model.Note, error) {
	if owner == uuid.Nil {
		return model.Note{}, errs.ErrNotAuthenticated
	}
	if err := validateNote(in); err != nil {
		return model.Note{}, err
	}
	n := &model.Note{
		ID:      id,
		UserID:  owner,
		Title:   in.Title,
		Content: in.Content,
		Subject: subjectOrDefault(in.Subject),
		Tags:    model.ParseTags(in.Tags),
	}
	if err := s.notes.Update(ctx, n); err != nil {
		return model.Note{}, fmt.Errorf("update note: %w", err)
	}
	return *n, nil
}

// Delete removes an owned note and decrements the counter (best-effort).
func (s *NoteServiceImpl) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return errs.ErrNotAuthenticated
	}
	if err := s.notes.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	followUp(ctx, s.log, "note counter -1", func(ctx context.Context) error {
		return s.profiles.AddNotes(ctx, owner, -1, nil)
	})
	return nil
}
