package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// TaskRepo implements TaskRepository using PostgreSQL.
type TaskRepo struct{ db *DB }

// NewTaskRepo constructs a task repository.
func NewTaskRepo(db *DB) *TaskRepo { return &TaskRepo{db: db} }

const taskColumns = `id, user_id, title, description, subject, due_date, priority, completed, created_at`

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t        model.Task
		priority string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Subject, &t.DueDate, &priority, &t.Completed, &t.CreatedAt)
	t.Priority = model.Priority(priority)
	return t, err
}

// Create inserts a task; created_at is supplied by the caller.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	const q = `
INSERT INTO tasks (` + taskColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.UserID, t.Title, t.Description, t.Subject, t.DueDate,
		string(t.Priority), t.Completed, t.CreatedAt)
	return err
}

// Get loads an owned task.
func (r *TaskRepo) Get(ctx context.Context, owner, id uuid.UUID) (*model.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1 AND user_id=$2`
	t, err := scanTask(r.db.Pool.QueryRow(ctx, q, id, owner))
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// Update replaces the editable fields of an owned task.
func (r *TaskRepo) Update(ctx context.Context, t *model.Task) error {
	const q = `
UPDATE tasks
SET title=$3, description=$4, subject=$5, due_date=$6, priority=$7
WHERE id=$1 AND user_id=$2
RETURNING completed, created_at`
	err := r.db.Pool.QueryRow(ctx, q, t.ID, t.UserID, t.Title, t.Description, t.Subject, t.DueDate, string(t.Priority)).
		Scan(&t.Completed, &t.CreatedAt)
	return notFound(err)
}

// SetCompleted writes the completion flag only.
func (r *TaskRepo) SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) (*model.Task, error) {
	const q = `UPDATE tasks SET completed=$3 WHERE id=$1 AND user_id=$2 RETURNING ` + taskColumns
	t, err := scanTask(r.db.Pool.QueryRow(ctx, q, id, owner, completed))
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// Delete removes an owned task.
func (r *TaskRepo) Delete(ctx context.Context, owner, id uuid.UUID) error {
	const q = `DELETE FROM tasks WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// List returns the owner's tasks newest first, filtered by status and priority.
func (r *TaskRepo) List(ctx context.Context, owner uuid.UUID, q repository.TaskQuery) ([]model.Task, error) {
	sel := psql.Select(taskColumns).From("tasks").Where(ownedBy(owner)).OrderBy("created_at DESC")
	switch q.Filter.Status {
	case model.StatusPending:
		sel = sel.Where(sq.Eq{"completed": false})
	case model.StatusCompleted:
		sel = sel.Where(sq.Eq{"completed": true})
	}
	switch p := model.Priority(q.Filter.Priority); p {
	case model.PriorityHigh, model.PriorityLow:
		sel = sel.Where(sq.Eq{"priority": string(p)})
	case model.PriorityMedium:
		// unknown stored values display as medium
		sel = sel.Where(sq.NotEq{"priority": []string{string(model.PriorityHigh), string(model.PriorityLow)}})
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

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
