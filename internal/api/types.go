// Package api holds the JSON wire types shared by the HTTP server and the client.
package api

import "time"

// Error is the body of every non-2xx response.
type Error struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type EmailChange struct {
	Email string `json:"email"`
}

type PasswordChange struct {
	Password string `json:"password"`
}

type DisplayNameChange struct {
	Name string `json:"name"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type Profile struct {
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Bio             string     `json:"bio"`
	Institution     string     `json:"institution"`
	Program         string     `json:"program"`
	Year            string     `json:"year"`
	JoinDate        time.Time  `json:"joinDate"`
	LastActive      time.Time  `json:"lastActive"`
	TotalNotes      int        `json:"totalNotes"`
	CompletedTasks  int        `json:"completedTasks"`
	StudyStreak     int        `json:"studyStreak"`
	LastNoteCreated *time.Time `json:"lastNoteCreated,omitempty"`
}

type Identity struct {
	User    User    `json:"user"`
	Profile Profile `json:"profile"`
}

// Session is returned by register and login.
type Session struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Identity    Identity  `json:"identity"`
}

type Note struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Subject       string    `json:"subject"`
	Tags          []string  `json:"tags"`
	AttachmentURL *string   `json:"attachmentUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NoteInput carries tags as the comma separated string the user typed.
type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Subject string `json:"subject"`
	Tags    string `json:"tags"`
}

type NoteList struct {
	Notes    []Note   `json:"notes"`
	Subjects []string `json:"subjects"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	DueDate     string    `json:"dueDate"`
	Priority    string    `json:"priority"`
	Completed   bool      `json:"completed"`
	Overdue     bool      `json:"overdue"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

type TaskList struct {
	Tasks   []Task `json:"tasks"`
	Overdue int    `json:"overdue"`
}

type Toggle struct {
	Task      Task   `json:"task"`
	Celebrate bool   `json:"celebrate"`
	Message   string `json:"message,omitempty"`
}

type Resource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

type Activity struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	ResourceName string    `json:"resourceName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Stats struct {
	TotalNotes     int `json:"totalNotes"`
	CompletedTasks int `json:"completedTasks"`
	PendingTasks   int `json:"pendingTasks"`
	TotalTasks     int `json:"totalTasks"`
}

// ProfilePatch maps editable field names to new values.
type ProfilePatch map[string]string

type Summary struct {
	Name           string     `json:"name"`
	RecentNotes    []Note     `json:"recentNotes"`
	PendingTasks   []Task     `json:"pendingTasks"`
	Stats          Stats      `json:"stats"`
	RecentActivity []Activity `json:"recentActivity"`
}
