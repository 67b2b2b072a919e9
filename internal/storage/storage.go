// Package storage keeps attachment blobs in S3-compatible object storage.
// Metadata lives in Postgres; only the bytes live here, addressed by object
// key.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jonathan/jobtrack/internal/config"
)

// BlobStore reads and writes attachment objects in one bucket.
type BlobStore struct {
	client *minio.Client
	bucket string
}

// NewBlobStore connects to the configured endpoint and creates the bucket if
// it does not exist yet.
func NewBlobStore(ctx context.Context, cfg *config.StorageConfig) (*BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &BlobStore{client: client, bucket: cfg.Bucket}, nil
}

// ObjectKey builds the storage key for one attachment. Keys are namespaced
// by user so a bucket listing groups per account.
func ObjectKey(userID, attachmentID uuid.UUID, filename string) string {
	return fmt.Sprintf("%s/%s/%s", userID, attachmentID, filename)
}

// Put uploads one object.
func (b *BlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", key, err)
	}
	return nil
}

// Get opens one object for reading. The caller closes the returned reader.
func (b *BlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s: %w", key, err)
	}
	return obj, nil
}

// Remove deletes one object. Removing a missing object is not an error.
func (b *BlobStore) Remove(ctx context.Context, key string) error {
	if err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}
