package postgres

import (
	"context"
	"errors"

	"github.com/and161185/studysync/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// ResourceRepo implements ResourceRepository using PostgreSQL.
type ResourceRepo struct{ db *DB }

// NewResourceRepo constructs a resource repository.
func NewResourceRepo(db *DB) *ResourceRepo { return &ResourceRepo{db: db} }

// Create inserts resource metadata.
func (r *ResourceRepo) Create(ctx context.Context, res *model.Resource) error {
	const q = `
INSERT INTO resources (id, user_id, name, url, public_id, mime_type, size)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at`
	return r.db.Pool.QueryRow(ctx, q, res.ID, res.UserID, res.Name, res.URL, res.PublicID, res.MimeType, res.Size).
		Scan(&res.CreatedAt)
}

// List returns the owner's resources newest first.
func (r *ResourceRepo) List(ctx context.Context, owner uuid.UUID) ([]model.Resource, error) {
	const q = `
SELECT id, user_id, name, url, public_id, mime_type, size, created_at
FROM resources WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Resource{}
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.UserID, &res.Name, &res.URL, &res.PublicID, &res.MimeType, &res.Size, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Delete removes an owned resource and reports its name.
func (r *ResourceRepo) Delete(ctx context.Context, owner, id uuid.UUID) (string, bool, error) {
	const q = `DELETE FROM resources WHERE id=$1 AND user_id=$2 RETURNING name`
	var name string
	err := r.db.Pool.QueryRow(ctx, q, id, owner).Scan(&name)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, err
	}
	return name, true, nil
}

// ActivityRepo implements ActivityRepository using PostgreSQL.
type ActivityRepo struct{ db *DB }

// NewActivityRepo constructs an activity log repository.
func NewActivityRepo(db *DB) *ActivityRepo { return &ActivityRepo{db: db} }

// Append writes one activity entry.
func (r *ActivityRepo) Append(ctx context.Context, a *model.Activity) error {
	const q = `
INSERT INTO activity (id, user_id, kind, resource_name)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	return r.db.Pool.QueryRow(ctx, q, a.ID, a.UserID, string(a.Kind), a.ResourceName).Scan(&a.CreatedAt)
}

// Recent returns the newest entries of the owner.
func (r *ActivityRepo) Recent(ctx context.Context, owner uuid.UUID, limit int) ([]model.Activity, error) {
	sql, args, err := psql.Select("id", "user_id", "kind", "resource_name", "created_at").
		From("activity").
		Where(ownedBy(owner)).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Activity{}
	for rows.Next() {
		var (
			a    model.Activity
			kind string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &kind, &a.ResourceName, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Kind = model.ActivityKind(kind)
		out = append(out, a)
	}
	return out, rows.Err()
}
