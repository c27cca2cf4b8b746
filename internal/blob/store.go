package blob

import "context"

// ProgressFunc receives transferred and total byte counts while an
// upload is in flight. It is called from the uploading goroutine.
type ProgressFunc func(transferred, total int64)

// Store is the binary-object storage collaborator. Implementations must
// support concurrent uploads without cross-contaminating progress events.
type Store interface {
	// Upload writes data under path and returns a fetchable URL.
	Upload(ctx context.Context, path, contentType string, data []byte, progress ProgressFunc) (string, error)
}
