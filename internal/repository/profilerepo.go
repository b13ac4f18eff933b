package repository

import (
	"context"
	"time"

	"github.com/and161185/studysync/internal/model"
	"github.com/gofrs/uuid/v5"
)

// ProfileRepository stores one profile per user id.
type ProfileRepository interface {
	// Get loads the profile; errs.ErrNotFound when absent.
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// Put writes the whole profile keyed by user id (last write wins).
	Put(ctx context.Context, p *model.Profile) error
	// Patch writes only the given editable fields and returns the merged profile.
	Patch(ctx context.Context, userID uuid.UUID, patch model.ProfilePatch) (*model.Profile, error)
	// Touch stamps last activity and the study streak.
	Touch(ctx context.Context, userID uuid.UUID, at time.Time, streak int) error
	// AddNotes adjusts the note counter by delta (never below zero); a non-nil at
	// also records the last note creation time.
	AddNotes(ctx context.Context, userID uuid.UUID, delta int, at *time.Time) error
	// SetCounters overwrites the stored counters.
	SetCounters(ctx context.Context, userID uuid.UUID, totalNotes, completedTasks int) error
}
