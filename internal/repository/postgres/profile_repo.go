package postgres

import (
	"context"
	"time"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// ProfileRepo implements ProfileRepository using PostgreSQL.
type ProfileRepo struct{ db *DB }

// NewProfileRepo constructs a profile repository.
func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

const profileColumns = `user_id, name, email, bio, institution, program, year, join_date, created_at, last_active, total_notes, completed_tasks, study_streak, last_note_created`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.UserID, &p.Name, &p.Email, &p.Bio, &p.Institution, &p.Program, &p.Year,
		&p.JoinDate, &p.CreatedAt, &p.LastActive, &p.TotalNotes, &p.CompletedTasks, &p.StudyStreak, &p.LastNoteCreated)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Get loads a profile by user id.
func (r *ProfileRepo) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE user_id=$1`
	return scanProfile(r.db.Pool.QueryRow(ctx, q, userID))
}

// Put upserts the full profile.
func (r *ProfileRepo) Put(ctx context.Context, p *model.Profile) error {
	const q = `
INSERT INTO profiles (` + profileColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (user_id) DO UPDATE SET
  name=EXCLUDED.name, email=EXCLUDED.email, bio=EXCLUDED.bio,
  institution=EXCLUDED.institution, program=EXCLUDED.program, year=EXCLUDED.year,
  join_date=EXCLUDED.join_date, created_at=EXCLUDED.created_at, last_active=EXCLUDED.last_active,
  total_notes=EXCLUDED.total_notes, completed_tasks=EXCLUDED.completed_tasks,
  study_streak=EXCLUDED.study_streak, last_note_created=EXCLUDED.last_note_created`
	_, err := r.db.Pool.Exec(ctx, q, p.UserID, p.Name, p.Email, p.Bio, p.Institution, p.Program, p.Year,
		p.JoinDate, p.CreatedAt, p.LastActive, p.TotalNotes, p.CompletedTasks, p.StudyStreak, p.LastNoteCreated)
	return err
}

// Patch updates only the fields present in patch.
func (r *ProfileRepo) Patch(ctx context.Context, userID uuid.UUID, patch model.ProfilePatch) (*model.Profile, error) {
	if len(patch) == 0 {
		return r.Get(ctx, userID)
	}
	upd := psql.Update("profiles")
	for _, f := range model.EditableFields {
		if v, ok := patch[f]; ok {
			upd = upd.Set(string(f), v)
		}
	}
	sql, args, err := upd.Where(ownedBy(userID)).Suffix("RETURNING " + profileColumns).ToSql()
	if err != nil {
		return nil, err
	}
	return scanProfile(r.db.Pool.QueryRow(ctx, sql, args...))
}

// Touch stamps last_active and the streak.
func (r *ProfileRepo) Touch(ctx context.Context, userID uuid.UUID, at time.Time, streak int) error {
	const q = `UPDATE profiles SET last_active=$2, study_streak=$3 WHERE user_id=$1`
	return r.execOne(ctx, q, userID, at, streak)
}

// AddNotes adjusts total_notes and optionally last_note_created.
func (r *ProfileRepo) AddNotes(ctx context.Context, userID uuid.UUID, delta int, at *time.Time) error {
	const q = `
UPDATE profiles
SET total_notes = GREATEST(total_notes + $2, 0),
    last_note_created = COALESCE($3, last_note_created)
WHERE user_id=$1`
	return r.execOne(ctx, q, userID, delta, at)
}

// SetCounters overwrites the stored counters.
func (r *ProfileRepo) SetCounters(ctx context.Context, userID uuid.UUID, totalNotes, completedTasks int) error {
	const q = `UPDATE profiles SET total_notes=$2, completed_tasks=$3 WHERE user_id=$1`
	return r.execOne(ctx, q, userID, totalNotes, completedTasks)
}

func (r *ProfileRepo) execOne(ctx context.Context, q string, args ...any) error {
	tag, err := r.db.Pool.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
