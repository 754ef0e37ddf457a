package mediaio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/awmthink/viseeker/pkg/ports"
)

// InputMode selects how remote inputs are made readable.
type InputMode string

const (
	// ModeDownload fetches remote inputs to a temp file and returns a
	// local path.
	ModeDownload InputMode = "download"
	// ModeURL returns a URL the external binaries can stream directly;
	// s3:// inputs are presigned.
	ModeURL InputMode = "url"
)

// DefaultPresignExpiry bounds the lifetime of presigned input URLs.
const DefaultPresignExpiry = time.Hour

// Resolver turns input and output specifications into readable and
// writable references.
type Resolver struct {
	fs     ports.FileSystem
	store  ports.ObjectStore
	client *http.Client
}

// NewResolver creates a Resolver. store may be nil when S3 support is
// not configured; s3:// specs then fail with a clear error.
func NewResolver(fs ports.FileSystem, store ports.ObjectStore) *Resolver {
	return &Resolver{
		fs:     fs,
		store:  store,
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}

// Input is a resolved, readable input reference. Close releases any
// temp file that was downloaded for it.
type Input struct {
	// Ref is a local path (download mode) or a URL (url mode).
	Ref string

	fs      ports.FileSystem
	tempDir string
}

// Close removes downloaded temp artifacts. Safe to call for pass-through
// inputs.
func (in *Input) Close() error {
	if in.tempDir == "" {
		return nil
	}
	return in.fs.RemoveAll(in.tempDir)
}

// ResolveInput prepares spec for reading. Specs without an http(s) or
// s3 scheme are treated as local paths and pass through untouched; a
// missing file surfaces later from the prober or encoder.
func (r *Resolver) ResolveInput(ctx context.Context, spec string, mode InputMode) (*Input, error) {
	if mode != ModeURL && mode != ModeDownload {
		return nil, fmt.Errorf("unsupported input mode: %s", mode)
	}

	switch {
	case IsHTTPURL(spec):
		if mode == ModeURL {
			return &Input{Ref: spec, fs: r.fs}, nil
		}
		return r.download(ctx, spec, func(ctx context.Context, dest string) error {
			return r.fetchHTTP(ctx, spec, dest)
		})

	case IsS3URL(spec):
		if r.store == nil {
			return nil, fmt.Errorf("s3 input %s: object storage not configured", spec)
		}
		if mode == ModeURL {
			url, err := r.store.Presign(ctx, spec, DefaultPresignExpiry)
			if err != nil {
				return nil, err
			}
			return &Input{Ref: url, fs: r.fs}, nil
		}
		return r.download(ctx, spec, func(ctx context.Context, dest string) error {
			return r.store.Download(ctx, spec, dest)
		})

	default:
		return &Input{Ref: spec, fs: r.fs}, nil
	}
}

func (r *Resolver) download(ctx context.Context, spec string, fetch func(context.Context, string) error) (*Input, error) {
	dir, err := r.fs.TempDir("viseeker_input")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	dest := filepath.Join(dir, filenameFromURL(spec, "input_file"))
	if err := fetch(ctx, dest); err != nil {
		_ = r.fs.RemoveAll(dir)
		return nil, fmt.Errorf("fetch %s: %w", spec, err)
	}

	return &Input{Ref: dest, fs: r.fs, tempDir: dir}, nil
}

// fetchHTTP streams an HTTP(S) response body to a local file.
func (r *Resolver) fetchHTTP(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return err
	}
	return f.Sync()
}
