// Package archive uploads run artifacts to S3-compatible storage.
package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store publishes artifacts to a bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore connects to the S3-compatible endpoint.
func NewStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Store, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("archive endpoint and credentials are required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Store{client: client, bucket: bucket}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// PublishRun uploads the given files under runs/<runID>/ and returns the
// object keys. Files are uploaded in order; the first failure aborts.
func (s *Store) PublishRun(ctx context.Context, runID string, paths ...string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no artifacts to publish")
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		key := fmt.Sprintf("runs/%s/%s", runID, filepath.Base(path))
		opts := minio.PutObjectOptions{ContentType: contentType(path)}
		if _, err := s.client.FPutObject(ctx, s.bucket, key, path, opts); err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", path, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
