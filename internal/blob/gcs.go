package blob

import (
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const publicHost = "https://storage.googleapis.com"

// GCS is a Storage backed by a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a client for bucket. With an empty credentialsFile the
// application default credentials are used.
func NewGCS(ctx context.Context, bucket, credentialsFile string) (*GCS, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

// Put uploads data and grants public read access on the object.
func (g *GCS) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	obj := g.client.Bucket(g.bucket).Object(path)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to make object %s public: %w", path, err)
	}

	return PublicURL(g.bucket, path), nil
}

// Close closes the storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}

// PublicURL returns the public HTTPS URL of an object.
func PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/%s/%s", publicHost, bucket, (&url.URL{Path: path}).EscapedPath())
}
