package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// BlobStore is the URL-returning upload surface the face module persists
// image references against.
type BlobStore interface {
	Upload(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
}

type gcsStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(client *gcs.Client, bucket string) BlobStore {
	return &gcsStore{client: client, bucket: bucket}
}

func (s *gcsStore) Upload(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close writer %s: %w", objectName, err)
	}

	return "https://storage.googleapis.com/" + s.bucket + "/" + objectName, nil
}

func (s *gcsStore) Delete(ctx context.Context, objectName string) error {
	return s.client.Bucket(s.bucket).Object(objectName).Delete(ctx)
}

// ObjectFromURL recovers the object name from a stored public URL. Returns
// empty when the URL was not produced by this store.
func ObjectFromURL(bucket, url string) string {
	prefix := "https://storage.googleapis.com/" + bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
