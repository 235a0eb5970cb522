package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
)

const uploadTimeout = 30 * time.Second

// GCSUploader stores attachments in a Google Cloud Storage bucket and hands
// back public object URLs.
type GCSUploader struct {
	client *storage.Client
	bucket string
}

// NewGCSUploader creates an uploader for the given bucket. When
// credentialsJSON is empty, application default credentials are used.
func NewGCSUploader(ctx context.Context, bucket, credentialsJSON string) (*GCSUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket name cannot be empty")
	}

	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSUploader{client: client, bucket: bucket}, nil
}

var _ portssvc.Uploader = (*GCSUploader)(nil)

// Upload streams data into the bucket under objectName and returns the
// object's public URL.
func (u *GCSUploader) Upload(ctx context.Context, objectName, contentType string, data io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	wc := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectName), nil
}

// Close releases the underlying storage client.
func (u *GCSUploader) Close() error {
	return u.client.Close()
}
