package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateAttachment inserts an attachment metadata row and returns it
func (db *DB) CreateAttachment(ctx context.Context, a *Attachment) (*Attachment, error) {
	var out Attachment
	err := db.pool.QueryRow(ctx,
		`INSERT INTO attachments (user_id, name, size, content_type, category, description, object_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, name, size, content_type, category, description, object_key, created_at`,
		a.UserID, a.Name, a.Size, a.ContentType, a.Category, a.Description, a.ObjectKey,
	).Scan(&out.ID, &out.UserID, &out.Name, &out.Size, &out.ContentType,
		&out.Category, &out.Description, &out.ObjectKey, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}
	return &out, nil
}

// ListAttachments retrieves all attachment rows owned by the user, newest first
func (db *DB) ListAttachments(ctx context.Context, userID uuid.UUID) ([]Attachment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, name, size, content_type, category, description, object_key, created_at
		 FROM attachments WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Size, &a.ContentType,
			&a.Category, &a.Description, &a.ObjectKey, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, nil
}

// GetAttachment retrieves one attachment scoped by owner, nil when absent
func (db *DB) GetAttachment(ctx context.Context, attachmentID, userID uuid.UUID) (*Attachment, error) {
	var a Attachment
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, name, size, content_type, category, description, object_key, created_at
		 FROM attachments WHERE id = $1 AND user_id = $2`,
		attachmentID, userID,
	).Scan(&a.ID, &a.UserID, &a.Name, &a.Size, &a.ContentType,
		&a.Category, &a.Description, &a.ObjectKey, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	return &a, nil
}

// DeleteAttachment removes an attachment row scoped by owner. Returns false
// when no row matched.
func (db *DB) DeleteAttachment(ctx context.Context, attachmentID, userID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM attachments WHERE id = $1 AND user_id = $2`,
		attachmentID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete attachment: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
