package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// DueDateLayout is the calendar date format of Task.DueDate.
const DueDateLayout = "2006-01-02"

// Priority of a task.
type Priority string

// Known priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority maps user input to a priority; empty input means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// Display returns the priority to render; anything unknown renders as medium.
func (p Priority) Display() Priority {
	switch p {
	case PriorityHigh, PriorityLow:
		return p
	default:
		return PriorityMedium
	}
}

// Task is a user-owned planner entry.
type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Subject     string
	DueDate     string // YYYY-MM-DD
	Priority    Priority
	Completed   bool
	CreatedAt   time.Time
}

// TaskInput is the editable part of a task as submitted by the user.
type TaskInput struct {
	Title       string
	Description string
	Subject     string
	DueDate     string
	Priority    string
}

// Due parses the due date as midnight in loc. ok is false when it is missing or malformed.
func (t Task) Due(loc *time.Location) (time.Time, bool) {
	d, err := time.ParseInLocation(DueDateLayout, t.DueDate, loc)
	return d, err == nil
}

// IsOverdue reports whether the due date is strictly before the calendar date of today,
// taken in today's location, and the task is still open.
func (t Task) IsOverdue(today time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due(today.Location())
	return ok && due.Before(dateOf(today))
}

// Task status filter values.
const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// TaskFilter narrows a task list by status and priority; both must match.
type TaskFilter struct {
	Status   string
	Priority string
}

// Validate rejects unknown status or priority values.
func (f TaskFilter) Validate() error {
	switch f.Status {
	case "", StatusAll, StatusPending, StatusCompleted:
	default:
		return fmt.Errorf("unknown status %q", f.Status)
	}
	switch Priority(f.Priority) {
	case "", PriorityHigh, PriorityMedium, PriorityLow:
	default:
		if f.Priority != StatusAll {
			return fmt.Errorf("unknown priority %q", f.Priority)
		}
	}
	return nil
}

// Match reports whether t passes the filter.
func (f TaskFilter) Match(t Task) bool {
	switch f.Status {
	case StatusPending:
		if t.Completed {
			return false
		}
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	}
	if f.Priority != "" && f.Priority != StatusAll && Priority(f.Priority) != t.Priority.Display() {
		return false
	}
	return true
}

// FilterTasks returns the tasks owned by owner that pass f, preserving order.
func FilterTasks(owner uuid.UUID, tasks []Task, f TaskFilter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.UserID == owner && f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// OverdueCount counts open tasks past their due date.
func OverdueCount(tasks []Task, today time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.IsOverdue(today) {
			n++
		}
	}
	return n
}
