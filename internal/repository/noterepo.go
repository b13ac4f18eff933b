package repository

import (
	"context"

	"github.com/and161185/studysync/internal/model"
	"github.com/gofrs/uuid/v5"
)

// NoteQuery narrows a note listing at the storage level.
type NoteQuery struct {
	Subject string // "" or "all" for any
	Limit   int    // 0 for no limit
}

// NoteRepository stores notes; every call is scoped to the owner.
type NoteRepository interface {
	// Create inserts n and fills its timestamps.
	Create(ctx context.Context, n *model.Note) error
	// Update replaces the editable fields; errs.ErrNotFound if n is not owned by n.UserID.
	Update(ctx context.Context, n *model.Note) error
	Delete(ctx context.Context, owner, id uuid.UUID) error
	// List returns notes newest first.
	List(ctx context.Context, owner uuid.UUID, q NoteQuery) ([]model.Note, error)
}
