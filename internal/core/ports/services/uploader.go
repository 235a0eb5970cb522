package services

import (
	"context"
	"io"
)

// Uploader stores binary attachments (invoices, delivery challans, worker
// photos) and returns a URL the stored object can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, objectName, contentType string, data io.Reader) (string, error)
}
