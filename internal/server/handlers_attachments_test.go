package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobtrack/internal/db"
	"github.com/jonathan/jobtrack/internal/types"
)

// fakeAttachmentStore is an in-memory AttachmentStore.
type fakeAttachmentStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*db.Attachment
}

func newFakeAttachmentStore() *fakeAttachmentStore {
	return &fakeAttachmentStore{rows: make(map[uuid.UUID]*db.Attachment)}
}

func (f *fakeAttachmentStore) CreateAttachment(_ context.Context, a *db.Attachment) (*db.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *a
	copied.ID = uuid.New()
	copied.CreatedAt = time.Now()
	f.rows[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeAttachmentStore) ListAttachments(_ context.Context, userID uuid.UUID) ([]db.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Attachment
	for _, a := range f.rows {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (f *fakeAttachmentStore) GetAttachment(_ context.Context, attachmentID, userID uuid.UUID) (*db.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[attachmentID]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAttachmentStore) DeleteAttachment(_ context.Context, attachmentID, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[attachmentID]
	if !ok || a.UserID != userID {
		return false, nil
	}
	delete(f.rows, attachmentID)
	return true, nil
}

// fakeBlobs is an in-memory Blobs.
type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeBlobs) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobs) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

// uploadAttachment posts one multipart file through the handler chain.
func uploadAttachment(t *testing.T, s *Server, token, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("category", "resume"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/attachments", &buf)
	req.RemoteAddr = "192.0.2.1:12345"
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestUploadDownloadAttachment(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "files@example.com")

	content := []byte("%PDF-1.4 fake resume bytes")
	rec := uploadAttachment(t, s, token, "resume.pdf", "application/pdf", content)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var uploaded types.Attachment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.Equal(t, "resume.pdf", uploaded.Name)
	assert.Equal(t, "application/pdf", uploaded.ContentType)
	assert.Equal(t, "resume", uploaded.Category)

	rec2 := doRequest(s, "GET", "/attachments/"+uploaded.ID.String()+"/download", token, nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, content, rec2.Body.Bytes())
	assert.Equal(t, "application/pdf", rec2.Header().Get("Content-Type"))
}

func TestUploadAttachment_RejectsDisallowedType(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "files@example.com")

	rec := uploadAttachment(t, s, token, "app.exe", "application/x-msdownload", []byte("MZ"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestListAttachments(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "files@example.com")

	rec := uploadAttachment(t, s, token, "notes.txt", "text/plain", []byte("hello"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(s, "GET", "/attachments", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var attachments []types.Attachment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attachments))
	require.Len(t, attachments, 1)
	assert.Equal(t, "notes.txt", attachments[0].Name)
}

func TestDeleteAttachment_OwnerScoped(t *testing.T) {
	s, _ := newTestServer(t)
	owner := registerUser(t, s, "owner@example.com")
	other := registerUser(t, s, "other@example.com")

	rec := uploadAttachment(t, s, owner, "offer.pdf", "application/pdf", []byte("%PDF"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var uploaded types.Attachment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	// Another account cannot delete it, and cannot tell it exists.
	rec2 := doRequest(s, "DELETE", "/attachments/"+uploaded.ID.String(), other, nil)
	assert.Equal(t, http.StatusNotFound, rec2.Code)

	rec2 = doRequest(s, "DELETE", "/attachments/"+uploaded.ID.String(), owner, nil)
	assert.Equal(t, http.StatusNoContent, rec2.Code)

	rec2 = doRequest(s, "GET", "/attachments/"+uploaded.ID.String()+"/download", owner, nil)
	assert.Equal(t, http.StatusNotFound, rec2.Code)
}
