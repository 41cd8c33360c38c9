// internal/storage/storage.go
package storage

import "context"

// ObjectStorage captures the minimal operation the upload archive needs.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, data []byte, contentType string) error
}
