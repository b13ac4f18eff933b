package postgres

import (
	"context"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// NoteRepo implements NoteRepository using PostgreSQL.
type NoteRepo struct{ db *DB }

// NewNoteRepo constructs a note repository.
func NewNoteRepo(db *DB) *NoteRepo { return &NoteRepo{db: db} }

var noteColumns = []string{"id", "user_id", "title", "content", "subject", "tags", "attachment_url", "created_at", "updated_at"}

// Create inserts a note; timestamps come from the database clock.
func (r *NoteRepo) Create(ctx context.Context, n *model.Note) error {
	const q = `
INSERT INTO notes (id, user_id, title, content, subject, tags)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at`
	return r.db.Pool.QueryRow(ctx, q, n.ID, n.UserID, n.Title, n.Content, n.Subject, n.Tags).
		Scan(&n.CreatedAt, &n.UpdatedAt)
}

// Update replaces title, content, subject and tags of an owned note.
func (r *NoteRepo) Update(ctx context.Context, n *model.Note) error {
	const q = `
UPDATE notes
SET title=$3, content=$4, subject=$5, tags=$6, updated_at=now()
WHERE id=$1 AND user_id=$2
RETURNING created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, q, n.ID, n.UserID, n.Title, n.Content, n.Subject, n.Tags).
		Scan(&n.CreatedAt, &n.UpdatedAt)
	return notFound(err)
}

// Delete removes an owned note.
func (r *NoteRepo) Delete(ctx context.Context, owner, id uuid.UUID) error {
	const q = `DELETE FROM notes WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// List returns the owner's notes newest first.
func (r *NoteRepo) List(ctx context.Context, owner uuid.UUID, q repository.NoteQuery) ([]model.Note, error) {
	sel := psql.Select(noteColumns...).From("notes").Where(ownedBy(owner)).OrderBy("created_at DESC")
	if q.Subject != "" && q.Subject != model.SubjectAll {
		sel = sel.Where("subject = ?", q.Subject)
	}
	if q.Limit > 0 {
		sel = sel.Limit(uint64(q.Limit))
	}
	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNote(row pgx.Row) (model.Note, error) {
	var n model.Note
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Subject, &n.Tags, &n.AttachmentURL, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}
