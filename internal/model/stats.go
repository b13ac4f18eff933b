package model

import "github.com/gofrs/uuid/v5"

// Stats are the profile statistics derived from notes and tasks.
type Stats struct {
	TotalNotes     int
	CompletedTasks int
	PendingTasks   int
	TotalTasks     int
}

// ComputeStats counts notes and tasks owned by owner. Rows of other users are ignored.
func ComputeStats(owner uuid.UUID, notes []Note, tasks []Task) Stats {
	var s Stats
	for _, n := range notes {
		if n.UserID == owner {
			s.TotalNotes++
		}
	}
	for _, t := range tasks {
		if t.UserID != owner {
			continue
		}
		s.TotalTasks++
		if t.Completed {
			s.CompletedTasks++
		} else {
			s.PendingTasks++
		}
	}
	return s
}

// Summary is the signed-in home view.
type Summary struct {
	Name           string
	RecentNotes    []Note
	PendingTasks   []Task
	Stats          Stats
	RecentActivity []Activity
}
