package model

import (
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// DefaultSubject is used when a note or task is saved without a subject.
const DefaultSubject = "General"

// SubjectAll is the filter value that matches every subject.
const SubjectAll = "all"

// Note is a user-owned text note.
type Note struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Content       string
	Subject       string
	Tags          []string
	AttachmentURL *string // reserved, never populated
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NoteInput is the editable part of a note as submitted by the user.
type NoteInput struct {
	Title   string
	Content string
	Subject string
	Tags    string // comma separated
}

// ParseTags splits a comma separated tag string, trimming blanks and keeping order.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NoteFilter narrows a note list by free text and subject.
type NoteFilter struct {
	Search  string
	Subject string
}

// Match reports whether n passes the filter. Search is a case-insensitive
// substring match over title, content and tags.
func (f NoteFilter) Match(n Note) bool {
	if f.Subject != "" && f.Subject != SubjectAll && n.Subject != f.Subject {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// FilterNotes returns the notes owned by owner that pass f, preserving order.
func FilterNotes(owner uuid.UUID, notes []Note, f NoteFilter) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.UserID == owner && f.Match(n) {
			out = append(out, n)
		}
	}
	return out
}

// Subjects returns "all" followed by the distinct subjects in first-seen order.
func Subjects(notes []Note) []string {
	out := []string{SubjectAll}
	seen := map[string]struct{}{}
	for _, n := range notes {
		if _, ok := seen[n.Subject]; ok || n.Subject == "" {
			continue
		}
		seen[n.Subject] = struct{}{}
		out = append(out, n.Subject)
	}
	return out
}
