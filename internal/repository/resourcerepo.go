package repository

import (
	"context"

	"github.com/and161185/studysync/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ResourceRepository stores uploaded file metadata.
type ResourceRepository interface {
	Create(ctx context.Context, r *model.Resource) error
	// List returns resources newest first.
	List(ctx context.Context, owner uuid.UUID) ([]model.Resource, error)
	// Delete removes the row; deleted is false when nothing matched.
	Delete(ctx context.Context, owner, id uuid.UUID) (name string, deleted bool, err error)
}

// ActivityRepository is the append-only resource activity log.
type ActivityRepository interface {
	Append(ctx context.Context, a *model.Activity) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, owner uuid.UUID, limit int) ([]model.Activity, error)
}
