package model

import "time"

// Status is the closed three-state document lifecycle enumeration.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusStored   Status = "stored"
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusStored || s == StatusArchived
}

// Document is the metadata row for a stored file. It is a pure domain model
// with no database-specific tags; it is mutated only through the lifecycle
// engine and the document service, never by routing code.
//
// Invariant: StoredAt is set iff the document has reached stored; ArchivedAt
// is set iff it has reached archived; entering draft clears both.
type Document struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Workspace   Workspace         `json:"workspace"`
	Status      Status            `json:"status"`
	Facets      map[string]string `json:"facets,omitempty"`
	CreatedBy   string            `json:"created_by"`
	FileName    string            `json:"file_name"`
	FileSize    int64             `json:"file_size"`
	MimeType    string            `json:"mime_type"`
	FileHash    string            `json:"file_hash"`
	StorageKey  string            `json:"storage_key"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	StoredAt    *time.Time        `json:"stored_at,omitempty"`
	ArchivedAt  *time.Time        `json:"archived_at,omitempty"`
}
