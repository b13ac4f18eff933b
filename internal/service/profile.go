package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
)

// ProfileService reads and edits profiles and derives statistics.
type ProfileService interface {
	Load(ctx context.Context, owner uuid.UUID) (model.Profile, error)
	Save(ctx context.Context, owner uuid.UUID, patch model.ProfilePatch) (model.Profile, error)
	RecomputeStatistics(ctx context.Context, owner uuid.UUID) (model.Stats, error)
}

// ProfileServiceImpl implements ProfileService.
type ProfileServiceImpl struct {
	profiles repository.ProfileRepository
	notes    repository.NoteRepository
	tasks    repository.TaskRepository
	log      *zap.Logger
}

// NewProfileService constructs ProfileService.
func NewProfileService(profiles repository.ProfileRepository, notes repository.NoteRepository, tasks repository.TaskRepository, log *zap.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{profiles: profiles, notes: notes, tasks: tasks, log: log.With(zap.String("component", "profile"))}
}

// Load returns the stored profile.
func (s *ProfileServiceImpl) Load(ctx context.Context, owner uuid.UUID) (model.Profile, error) {
	if owner == uuid.Nil {
		return model.Profile{}, errs.ErrNotAuthenticated
	}
	p, err := s.profiles.Get(ctx, owner)
	if err != nil {
		return model.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return *p, nil
}

// Save writes only the patched editable fields and returns the merged profile.
func (s *ProfileServiceImpl) Save(ctx context.Context, owner uuid.UUID, patch model.ProfilePatch) (model.Profile, error) {
	if owner == uuid.Nil {
		return model.Profile{}, errs.ErrNotAuthenticated
	}
	if len(patch) == 0 {
		return s.Load(ctx, owner)
	}
	p, err := s.profiles.Patch(ctx, owner, patch)
	if err != nil {
		return model.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return *p, nil
}

// RecomputeStatistics counts the owner's notes and tasks and overwrites the
// stored counters when they drifted.
func (s *ProfileServiceImpl) RecomputeStatistics(ctx context.Context, owner uuid.UUID) (model.Stats, error) {
	if owner == uuid.Nil {
		return model.Stats{}, errs.ErrNotAuthenticated
	}
	notes, err := s.notes.List(ctx, owner, repository.NoteQuery{})
	if err != nil {
		return model.Stats{}, fmt.Errorf("stats notes: %w", err)
	}
	tasks, err := s.tasks.List(ctx, owner, repository.TaskQuery{})
	if err != nil {
		return model.Stats{}, fmt.Errorf("stats tasks: %w", err)
	}
	st := model.ComputeStats(owner, notes, tasks)

	p, err := s.profiles.Get(ctx, owner)
	if err != nil {
		s.log.Warn("stats without profile", zap.String("user", owner.String()), zap.Error(err))
		return st, nil
	}
	if p.TotalNotes != st.TotalNotes || p.CompletedTasks != st.CompletedTasks {
		followUp(ctx, s.log, "reconcile counters", func(ctx context.Context) error {
			return s.profiles.SetCounters(ctx, owner, st.TotalNotes, st.CompletedTasks)
		})
	}
	return st, nil
}
