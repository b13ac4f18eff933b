package repository

import (
	"context"

	"github.com/and161185/studysync/internal/model"
	"github.com/gofrs/uuid/v5"
)

// TaskQuery narrows a task listing at the storage level.
type TaskQuery struct {
	Filter model.TaskFilter
	Limit  int
}

// TaskRepository stores planner tasks; every call is scoped to the owner.
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	// Get loads a task; errs.ErrNotFound if absent or foreign.
	Get(ctx context.Context, owner, id uuid.UUID) (*model.Task, error)
	// Update replaces the editable fields of t.
	Update(ctx context.Context, t *model.Task) error
	// SetCompleted writes only the completion flag and returns the updated task.
	SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) (*model.Task, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
	// List returns tasks newest first.
	List(ctx context.Context, owner uuid.UUID, q TaskQuery) ([]model.Task, error)
}
