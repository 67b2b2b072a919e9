package types

import (
	"time"

	"github.com/google/uuid"
)

// Attachment represents an uploaded file (resume, cover letter, offer PDF)
// belonging to a user. The blob itself lives in object storage; this is the
// metadata row.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
