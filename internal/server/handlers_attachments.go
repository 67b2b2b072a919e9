package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/jobtrack/internal/db"
	"github.com/jonathan/jobtrack/internal/server/middleware"
	"github.com/jonathan/jobtrack/internal/storage"
	"github.com/jonathan/jobtrack/internal/types"
)

// maxAttachmentSize caps uploads at 10 MB.
const maxAttachmentSize = 10 << 20

// allowedAttachmentTypes is the upload content-type allow-list: documents a
// job seeker attaches to an application (resume, cover letter, offer).
var allowedAttachmentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// AttachmentStore is the metadata surface the attachment handlers need.
// *db.DB satisfies this.
type AttachmentStore interface {
	CreateAttachment(ctx context.Context, a *db.Attachment) (*db.Attachment, error)
	ListAttachments(ctx context.Context, userID uuid.UUID) ([]db.Attachment, error)
	GetAttachment(ctx context.Context, attachmentID, userID uuid.UUID) (*db.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID, userID uuid.UUID) (bool, error)
}

// Blobs is the object-storage surface the attachment handlers need.
// *storage.BlobStore satisfies this.
type Blobs interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

func toAPIAttachment(a *db.Attachment) *types.Attachment {
	return &types.Attachment{
		ID:          a.ID,
		UserID:      a.UserID,
		Name:        a.Name,
		Size:        a.Size,
		ContentType: a.ContentType,
		Category:    a.Category,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
	}
}

// handleUploadAttachment stores one uploaded document: blob first, metadata
// row second. A failed metadata insert removes the orphaned blob.
func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if s.blobs == nil {
		writeError(w, http.StatusServiceUnavailable, "Attachment storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentSize)
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large (max 10 MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if !allowedAttachmentTypes[contentType] {
		writeError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("Unsupported file type: %s", contentType))
		return
	}

	key := storage.ObjectKey(userID, uuid.New(), header.Filename)
	if err := s.blobs.Put(r.Context(), key, file, header.Size, contentType); err != nil {
		log.Printf("Error storing attachment blob: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	attachment, err := s.attachments.CreateAttachment(r.Context(), &db.Attachment{
		UserID:      userID,
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: contentType,
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		ObjectKey:   key,
	})
	if err != nil {
		log.Printf("Error creating attachment record: %v", err)
		if rmErr := s.blobs.Remove(r.Context(), key); rmErr != nil {
			log.Printf("Error removing orphaned blob %s: %v", key, rmErr)
		}
		writeError(w, http.StatusInternalServerError, "Failed to save attachment")
		return
	}

	writeJSON(w, http.StatusCreated, toAPIAttachment(attachment))
}

// handleListAttachments returns the caller's attachments, newest first.
func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	attachments, err := s.attachments.ListAttachments(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing attachments: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list attachments")
		return
	}

	out := make([]types.Attachment, 0, len(attachments))
	for i := range attachments {
		out = append(out, *toAPIAttachment(&attachments[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDownloadAttachment streams one attachment's bytes back to the owner.
func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	userID, attachmentID, ok := requestScope(w, r)
	if !ok {
		return
	}
	if s.blobs == nil {
		writeError(w, http.StatusServiceUnavailable, "Attachment storage not configured")
		return
	}

	attachment, err := s.attachments.GetAttachment(r.Context(), attachmentID, userID)
	if err != nil {
		log.Printf("Error getting attachment %s: %v", attachmentID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get attachment")
		return
	}
	if attachment == nil {
		writeError(w, http.StatusNotFound, "Attachment not found")
		return
	}

	blob, err := s.blobs.Get(r.Context(), attachment.ObjectKey)
	if err != nil {
		log.Printf("Error opening blob %s: %v", attachment.ObjectKey, err)
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	defer func() { _ = blob.Close() }()

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Name))
	if _, err := io.Copy(w, blob); err != nil {
		log.Printf("Error streaming attachment %s: %v", attachmentID, err)
	}
}

// handleDeleteAttachment removes an attachment's metadata row and blob.
func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	userID, attachmentID, ok := requestScope(w, r)
	if !ok {
		return
	}

	attachment, err := s.attachments.GetAttachment(r.Context(), attachmentID, userID)
	if err != nil {
		log.Printf("Error getting attachment %s: %v", attachmentID, err)
		writeError(w, http.StatusInternalServerError, "Failed to get attachment")
		return
	}
	if attachment == nil {
		writeError(w, http.StatusNotFound, "Attachment not found")
		return
	}

	if _, err := s.attachments.DeleteAttachment(r.Context(), attachmentID, userID); err != nil {
		log.Printf("Error deleting attachment %s: %v", attachmentID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete attachment")
		return
	}

	// Metadata row is gone; a blob removal failure leaves an unreferenced
	// object, which is harmless.
	if s.blobs != nil {
		if err := s.blobs.Remove(r.Context(), attachment.ObjectKey); err != nil {
			log.Printf("Error removing blob %s: %v", attachment.ObjectKey, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
