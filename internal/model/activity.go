package model

import "time"

// Activity actions appended by the document service.
const (
	ActionUploaded      = "uploaded"
	ActionDownloaded    = "downloaded"
	ActionStatusChanged = "status_changed"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
)

// Activity is an audit record of a document operation. Appends are
// best-effort: a failed append is logged and never propagated to the caller.
type Activity struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
