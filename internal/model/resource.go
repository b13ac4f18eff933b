package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// RecentActivityLimit is how many activity entries are shown.
const RecentActivityLimit = 5

// Resource is metadata of a file stored at the hosting service.
type Resource struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	URL       string
	PublicID  string // host-side id, kept for later cleanup
	MimeType  string
	Size      int64
	CreatedAt time.Time
}

// ActivityKind is the type of an activity entry.
type ActivityKind string

// Activity kinds.
const (
	ActivityUpload ActivityKind = "upload"
	ActivityDelete ActivityKind = "delete"
)

// Activity is an append-only log record of resource changes.
type Activity struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Kind         ActivityKind
	ResourceName string
	CreatedAt    time.Time
}

// Upload is a file submitted by the user.
type Upload struct {
	Name     string
	MimeType string
	Data     []byte
}

// Hosted is what the hosting service returns for a stored file.
type Hosted struct {
	URL          string
	PublicID     string
	Bytes        int64
	ResourceType string
}
