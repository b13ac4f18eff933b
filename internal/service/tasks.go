package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/studysync/internal/errs"
	"github.com/and161185/studysync/internal/model"
	"github.com/and161185/studysync/internal/repository"
)

// CompletionMessage is shown when a task becomes completed.
const CompletionMessage = "Congratulations! Task completed."

// Celebrator is notified when a task transitions to completed.
type Celebrator interface {
	Celebrate(ctx context.Context, t model.Task)
}

// ToggleResult is the outcome of a completion toggle.
type ToggleResult struct {
	Task      model.Task
	Celebrate bool
	Message   string
}

// TaskService manages planner tasks.
type TaskService interface {
	List(ctx context.Context, owner uuid.UUID, f model.TaskFilter) ([]model.Task, error)
	Create(ctx context.Context, owner uuid.UUID, in model.TaskInput) (model.Task, error)
	Update(ctx context.Context, owner, id uuid.UUID, in model.TaskInput) (model.Task, error)
	ToggleCompletion(ctx context.Context, owner, id uuid.UUID) (ToggleResult, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	tasks repository.TaskRepository
	party Celebrator
	log   *zap.Logger
	now   Clock
}

// NewTaskService constructs TaskService. party may be nil.
func NewTaskService(tasks repository.TaskRepository, party Celebrator, log *zap.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{tasks: tasks, party: party, log: log.With(zap.String("component", "planner")), now: time.Now}
}

func buildTask(in model.TaskInput) (model.Task, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.DueDate) == "" {
		return model.Task{}, errs.Validation("please fill in title and due date")
	}
	due := strings.TrimSpace(in.DueDate)
	if _, err := time.Parse(model.DueDateLayout, due); err != nil {
		return model.Task{}, errs.Validation("due date must be YYYY-MM-DD")
	}
	p, err := model.ParsePriority(in.Priority)
	if err != nil {
		return model.Task{}, errs.Validation(err.Error())
	}
	return model.Task{
		Title:       in.Title,
		Description: in.Description,
		Subject:     subjectOrDefault(in.Subject),
		DueDate:     due,
		Priority:    p,
	}, nil
}

// List returns the owner's tasks newest first, narrowed by f.
func (s *TaskServiceImpl) List(ctx context.Context, owner uuid.UUID, f model.TaskFilter) ([]model.Task, error) {
	if owner == uuid.Nil {
		return nil, errs.ErrNotAuthenticated
	}
	if err := f.Validate(); err != nil {
		return nil, errs.Validation(err.Error())
	}
	tasks, err := s.tasks.List(ctx, owner, repository.TaskQuery{Filter: f})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return model.FilterTasks(owner, tasks, f), nil
}

// Create validates and stores a new open task stamped with the submission time.
func (s *TaskServiceImpl) Create(ctx context.Context, owner uuid.UUID, in model.TaskInput) (model.Task, error) {
	if owner == uuid.Nil {
		return model.Task{}, errs.ErrNotAuthenticated
	}
	t, err := buildTask(in)
	if err != nil {
		return model.Task{}, err
	}
	if t.ID, err = uuid.NewV4(); err != nil {
		return model.Task{}, err
	}
	t.UserID = owner
	t.CreatedAt = s.now()
	if err := s.tasks.Create(ctx, &t); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// Update replaces the editable fields of an owned task.
func (s *TaskServiceImpl) Update(ctx context.Context, owner, id uuid.UUID, in model.TaskInput) (model.Task, error) {
	if owner == uuid.Nil {
		return model.Task{}, errs.ErrNotAuthenticated
	}
	t, err := buildTask(in)
	if err != nil {
		return model.Task{}, err
	}
	t.ID, t.UserID = id, owner
	if err := s.tasks.Update(ctx, &t); err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// ToggleCompletion flips the completion flag. Only the open-to-completed
// transition celebrates.
func (s *TaskServiceImpl) ToggleCompletion(ctx context.Context, owner, id uuid.UUID) (ToggleResult, error) {
	if owner == uuid.Nil {
		return ToggleResult{}, errs.ErrNotAuthenticated
	}
	cur, err := s.tasks.Get(ctx, owner, id)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("toggle task: %w", err)
	}
	updated, err := s.tasks.SetCompleted(ctx, owner, id, !cur.Completed)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("toggle task: %w", err)
	}
	res := ToggleResult{Task: *updated}
	if !cur.Completed && updated.Completed {
		res.Celebrate, res.Message = true, CompletionMessage
		if s.party != nil {
			s.party.Celebrate(ctx, *updated)
		}
	}
	return res, nil
}

// Delete removes an owned task.
func (s *TaskServiceImpl) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return errs.ErrNotAuthenticated
	}
	if err := s.tasks.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// LogCelebrator records completions in the log.
type LogCelebrator struct{ Log *zap.Logger }

// Celebrate logs the completed task.
func (c LogCelebrator) Celebrate(_ context.Context, t model.Task) {
	c.Log.Info("task completed", zap.String("task", t.ID.String()), zap.String("user", t.UserID.String()))
}
