package ports

import (
	"context"
	"time"
)

// ObjectStore abstracts S3-compatible object storage. URLs use the
// s3://bucket/key form.
type ObjectStore interface {
	// Download fetches an object to a local file path.
	Download(ctx context.Context, url, destPath string) error

	// Upload stores a local file at the given object URL. An empty
	// contentType leaves the content type unset.
	Upload(ctx context.Context, srcPath, url, contentType string) error

	// Presign returns a time-limited HTTP(S) GET URL for an object, so
	// external readers (ffprobe, ffmpeg) can stream it directly.
	Presign(ctx context.Context, url string, expiry time.Duration) (string, error)
}
