package config

import (
	"fmt"
	"os"
)

// StorageConfig holds object storage settings for attachment blobs. Any
// S3-compatible endpoint works (MinIO in development).
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewStorageConfig creates object storage configuration from environment
// variables. It reads STORAGE_ENDPOINT, STORAGE_ACCESS_KEY,
// STORAGE_SECRET_KEY, STORAGE_BUCKET (default: jobtrack-attachments) and
// STORAGE_USE_SSL (default: false).
func NewStorageConfig() (*StorageConfig, error) {
	endpoint := os.Getenv("STORAGE_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("STORAGE_ENDPOINT is required but not set")
	}

	accessKey := os.Getenv("STORAGE_ACCESS_KEY")
	secretKey := os.Getenv("STORAGE_SECRET_KEY")
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required")
	}

	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		bucket = "jobtrack-attachments"
	}

	return &StorageConfig{
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    bucket,
		UseSSL:    os.Getenv("STORAGE_USE_SSL") == "true",
	}, nil
}
