// Package gcsio moves statement files and normalized output between the
// local filesystem and Google Cloud Storage. Application Default
// Credentials are assumed (gcloud auth application-default login).
package gcsio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// StorageService abstracts cloud storage so the pipeline can be tested
// without network access.
type StorageService interface {
	// FetchStatement downloads the statement bytes at a gs:// URI.
	FetchStatement(ctx context.Context, gcsURI string) ([]byte, error)

	// UploadNormalized uploads a local normalized CSV to a bucket under
	// the given object name.
	UploadNormalized(ctx context.Context, bucket, objectName, localPath string) error
}

// Service is the GCS-backed StorageService.
type Service struct{}

// NewService creates the GCS-backed storage service.
func NewService() *Service {
	return &Service{}
}

var _ StorageService = (*Service)(nil)

// FetchStatement implements StorageService.
func (s *Service) FetchStatement(ctx context.Context, gcsURI string) ([]byte, error) {
	bucket, object, err := splitURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchStatement: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchStatement: reading object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("FetchStatement: reading bytes: %w", err)
	}
	return data, nil
}

// UploadNormalized implements StorageService.
func (s *Service) UploadNormalized(ctx context.Context, bucket, objectName, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("UploadNormalized: open %q: %w", localPath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("UploadNormalized: creating storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("UploadNormalized: copy to writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("UploadNormalized: finalize upload: %w", err)
	}
	return nil
}

// FilenameFromURI extracts the file name from a gs:// URI,
// e.g. "gs://bucket/folder/file.xlsx" → "file.xlsx".
func FilenameFromURI(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

// IsURI reports whether the input names a GCS object rather than a
// local file.
func IsURI(input string) bool {
	return strings.HasPrefix(input, "gs://")
}

func splitURI(gcsURI string) (bucket, object string, err error) {
	if !IsURI(gcsURI) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}
