package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account row. PasswordHash never leaves this package
// except through the auth service.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Attachment represents an attachment metadata row. ObjectKey addresses the
// blob in object storage and is not exposed over the wire.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	ObjectKey   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
