package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var taskCols = []string{"id", "user_id", "title", "description", "subject", "due_date", "priority", "completed", "created_at"}

func TestTaskRepo_Create_and_Get(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTaskRepo(db)
	ctx := context.Background()
	now := time.Now()
	task := &model.Task{
		ID: uuid.Must(uuid.NewV4()), UserID: uuid.Must(uuid.NewV4()), Title: "Essay",
		Subject: "History", DueDate: "2026-04-01", Priority: model.PriorityMedium, CreatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO tasks \(id, user_id, title, description, subject, due_date, priority, completed, created_at\)`).
		WithArgs(task.ID, task.UserID, "Essay", "", "History", "2026-04-01", "medium", false, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, task))

	mock.ExpectQuery(`FROM tasks WHERE id=\$1 AND user_id=\$2`).
		WithArgs(task.ID, task.UserID).
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(task.ID, task.UserID, "Essay", "", "History", "2026-04-01", "medium", false, now))
	got, err := r.Get(ctx, task.UserID, task.ID)
	require.NoError(t, err)
	require.Equal(t, model.PriorityMedium, got.Priority)

	mock.ExpectQuery(`FROM tasks WHERE id=\$1 AND user_id=\$2`).
		WithArgs(task.ID, task.UserID).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(ctx, task.UserID, task.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTaskRepo_SetCompleted_PartialWrite(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTaskRepo(db)
	owner, id := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`UPDATE tasks SET completed=\$3 WHERE id=\$1 AND user_id=\$2 RETURNING`).
		WithArgs(id, owner, true).
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(id, owner, "T", "", "General", "2026-01-01", "high", true, time.Now()))
	got, err := r.SetCompleted(context.Background(), owner, id, true)
	require.NoError(t, err)
	require.True(t, got.Completed)
}

func TestTaskRepo_Update_and_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTaskRepo(db)
	ctx := context.Background()
	now := time.Now()
	task := &model.Task{ID: uuid.Must(uuid.NewV4()), UserID: uuid.Must(uuid.NewV4()), Title: "T", Subject: "S", DueDate: "2026-01-02", Priority: model.PriorityLow}

	mock.ExpectQuery(`UPDATE tasks SET title=\$3, description=\$4, subject=\$5, due_date=\$6, priority=\$7 WHERE id=\$1 AND user_id=\$2 RETURNING completed, created_at`).
		WithArgs(task.ID, task.UserID, "T", "", "S", "2026-01-02", "low").
		WillReturnRows(pgxmock.NewRows([]string{"completed", "created_at"}).AddRow(true, now))
	require.NoError(t, r.Update(ctx, task))
	require.True(t, task.Completed)

	mock.ExpectExec(`DELETE FROM tasks WHERE id=\$1 AND user_id=\$2`).
		WithArgs(task.ID, task.UserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, task.UserID, task.ID), errs.ErrNotFound)
}

func TestTaskRepo_List_Filters(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTaskRepo(db)
	owner := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`FROM tasks WHERE user_id = \$1 AND completed = \$2 AND priority = \$3 ORDER BY created_at DESC`).
		WithArgs(owner, false, "high").
		WillReturnRows(pgxmock.NewRows(taskCols).AddRow(uuid.Must(uuid.NewV4()), owner, "T", "", "General", "2026-01-01", "high", false, time.Now()))
	tasks, err := r.List(context.Background(), owner, repository.TaskQuery{Filter: model.TaskFilter{Status: "pending", Priority: "high"}})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	mock.ExpectQuery(`FROM tasks WHERE user_id = \$1 AND priority NOT IN \(\$2,\$3\) ORDER BY created_at DESC LIMIT 3`).
		WithArgs(owner, "high", "low").
		WillReturnRows(pgxmock.NewRows(taskCols))
	tasks, err = r.List(context.Background(), owner, repository.TaskQuery{Filter: model.TaskFilter{Status: "all", Priority: "medium"}, Limit: 3})
	require.NoError(t, err)
	require.Empty(t, tasks)
}
