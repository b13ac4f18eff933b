package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/sync/errgroup"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
)

// Home summary sizes.
const (
	SummaryNotes = 3
	SummaryTasks = 3
)

// DashboardService builds the signed-in home view.
type DashboardService interface {
	Summary(ctx context.Context, owner uuid.UUID) (model.Summary, error)
}

// DashboardServiceImpl implements DashboardService.
type DashboardServiceImpl struct {
	auth     AuthService
	profiles ProfileService
	notes    repository.NoteRepository
	tasks    repository.TaskRepository
	activity repository.ActivityRepository
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(auth AuthService, profiles ProfileService, notes repository.NoteRepository, tasks repository.TaskRepository, activity repository.ActivityRepository) *DashboardServiceImpl {
	return &DashboardServiceImpl{auth: auth, profiles: profiles, notes: notes, tasks: tasks, activity: activity}
}

// Summary loads the home panels concurrently.
func (s *DashboardServiceImpl) Summary(ctx context.Context, owner uuid.UUID) (model.Summary, error) {
	if owner == uuid.Nil {
		return model.Summary{}, errs.ErrNotAuthenticated
	}
	var sum model.Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		id, err := s.auth.Current(gctx, owner)
		if err != nil {
			return err
		}
		sum.Name = id.Profile.Name
		if sum.Name == "" {
			sum.Name = model.DisplayNameFor(id.User)
		}
		return nil
	})
	g.Go(func() error {
		notes, err := s.notes.List(gctx, owner, repository.NoteQuery{Limit: SummaryNotes})
		if err != nil {
			return fmt.Errorf("recent notes: %w", err)
		}
		sum.RecentNotes = model.FilterNotes(owner, notes, model.NoteFilter{})
		return nil
	})
	g.Go(func() error {
		q := repository.TaskQuery{Filter: model.TaskFilter{Status: model.StatusPending}, Limit: SummaryTasks}
		tasks, err := s.tasks.List(gctx, owner, q)
		if err != nil {
			return fmt.Errorf("pending tasks: %w", err)
		}
		sum.PendingTasks = model.FilterTasks(owner, tasks, q.Filter)
		return nil
	})
	g.Go(func() error {
		st, err := s.profiles.RecomputeStatistics(gctx, owner)
		if err != nil {
			return err
		}
		sum.Stats = st
		return nil
	})
	g.Go(func() error {
		a, err := s.activity.Recent(gctx, owner, model.RecentActivityLimit)
		if err != nil {
			return fmt.Errorf("recent activity: %w", err)
		}
		sum.RecentActivity = a
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Summary{}, err
	}
	return sum, nil
}
