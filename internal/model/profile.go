package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Profile is the per-user profile document, keyed by the user id.
type Profile struct {
	UserID          uuid.UUID
	Name            string
	Email           string
	Bio             string
	Institution     string
	Program         string
	Year            string
	JoinDate        time.Time
	CreatedAt       time.Time
	LastActive      time.Time
	TotalNotes      int
	CompletedTasks  int
	StudyStreak     int
	LastNoteCreated *time.Time
}

// ProfileField names a user-editable profile field.
type ProfileField string

// Editable profile fields.
const (
	FieldName        ProfileField = "name"
	FieldEmail       ProfileField = "email"
	FieldBio         ProfileField = "bio"
	FieldInstitution ProfileField = "institution"
	FieldProgram     ProfileField = "program"
	FieldYear        ProfileField = "year"
)

// EditableFields lists the fields a user may change, in display order.
var EditableFields = []ProfileField{FieldName, FieldEmail, FieldBio, FieldInstitution, FieldProgram, FieldYear}

// ParseProfileField returns the field for name or an error for anything not editable.
func ParseProfileField(name string) (ProfileField, error) {
	f := ProfileField(strings.ToLower(strings.TrimSpace(name)))
	for _, e := range EditableFields {
		if e == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown profile field %q", name)
}

// Get returns the value of f in p.
func (f ProfileField) Get(p *Profile) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldEmail:
		return p.Email
	case FieldBio:
		return p.Bio
	case FieldInstitution:
		return p.Institution
	case FieldProgram:
		return p.Program
	case FieldYear:
		return p.Year
	}
	return ""
}

// Set stores v into f of p. Unknown fields are ignored.
func (f ProfileField) Set(p *Profile, v string) {
	switch f {
	case FieldName:
		p.Name = v
	case FieldEmail:
		p.Email = v
	case FieldBio:
		p.Bio = v
	case FieldInstitution:
		p.Institution = v
	case FieldProgram:
		p.Program = v
	case FieldYear:
		p.Year = v
	}
}

// ProfilePatch is a partial update of editable fields.
type ProfilePatch map[ProfileField]string

// Apply writes the patch into p.
func (pp ProfilePatch) Apply(p *Profile) {
	for f, v := range pp {
		f.Set(p, v)
	}
}

// DefaultProfile builds the profile created on first sign-in or registration.
// Counters start at zero.
func DefaultProfile(u User, now time.Time) Profile {
	return Profile{
		UserID:     u.ID,
		Name:       DisplayNameFor(u),
		Email:      u.Email,
		JoinDate:   now,
		CreatedAt:  now,
		LastActive: now,
	}
}

// DisplayNameFor picks the greeting name: display name, then email local part, then "User".
func DisplayNameFor(u User) string {
	if n := strings.TrimSpace(u.DisplayName); n != "" {
		return n
	}
	if local, _, ok := strings.Cut(u.Email, "@"); ok && local != "" {
		return local
	}
	return "User"
}

// NextStreak returns the study streak after activity at now, given the previous activity time.
// Consecutive calendar days extend the streak, the same day keeps it, any gap resets to 1.
// Days are counted in the location of now.
func NextStreak(prevActive time.Time, prevStreak int, now time.Time) int {
	if prevActive.IsZero() || prevStreak <= 0 {
		return 1
	}
	switch dayNumber(now) - dayNumber(prevActive.In(now.Location())) {
	case 0:
		return prevStreak
	case 1:
		return prevStreak + 1
	default:
		return 1
	}
}

// dateOf is midnight of t's calendar date in t's location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayNumber counts calendar days since the epoch for the date t shows.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
