package mocks

import (
	"context"
	"time"

	"github.com/awmthink/viseeker/pkg/ports"
)

// ObjectStore is a mock implementation of ports.ObjectStore.
type ObjectStore struct {
	DownloadFunc func(ctx context.Context, url, destPath string) error
	UploadFunc   func(ctx context.Context, srcPath, url, contentType string) error
	PresignFunc  func(ctx context.Context, url string, expiry time.Duration) (string, error)

	// Recorded calls for verification
	Downloads []string
	Uploads   []UploadCall
	Presigns  []string
}

// UploadCall records a call to Upload.
type UploadCall struct {
	SrcPath     string
	URL         string
	ContentType string
}

func (m *ObjectStore) Download(ctx context.Context, url, destPath string) error {
	m.Downloads = append(m.Downloads, url)
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, url, destPath)
	}
	return nil
}

func (m *ObjectStore) Upload(ctx context.Context, srcPath, url, contentType string) error {
	m.Uploads = append(m.Uploads, UploadCall{SrcPath: srcPath, URL: url, ContentType: contentType})
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, srcPath, url, contentType)
	}
	return nil
}

func (m *ObjectStore) Presign(ctx context.Context, url string, expiry time.Duration) (string, error) {
	m.Presigns = append(m.Presigns, url)
	if m.PresignFunc != nil {
		return m.PresignFunc(ctx, url, expiry)
	}
	return "https://presigned.example/" + url, nil
}

var _ ports.ObjectStore = (*ObjectStore)(nil)
