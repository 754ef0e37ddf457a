package mediaio

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/awmthink/viseeker/pkg/ports"
)

// Output is a resolved, writable output destination. Local destinations
// expose their final path directly; s3 destinations expose a temp path
// that Commit uploads. Close always removes temp artifacts and must be
// called whether or not Commit ran.
type Output struct {
	// LocalPath is the path the tool writes to.
	LocalPath string
	// S3URL is the destination object URL, empty for local outputs.
	S3URL string

	fs          ports.FileSystem
	store       ports.ObjectStore
	contentType string
	tempDir     string
}

// ResolveOutput prepares spec for writing. For local specs the parent
// directory is created and the path is used in place; for s3:// specs a
// temp file receives the data until Commit uploads it.
func (r *Resolver) ResolveOutput(spec, defaultName, contentType string) (*Output, error) {
	if spec == "" {
		return nil, fmt.Errorf("output must be provided")
	}

	if IsS3URL(spec) {
		if r.store == nil {
			return nil, fmt.Errorf("s3 output %s: object storage not configured", spec)
		}
		dir, err := r.fs.TempDir("viseeker_output")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		name := filenameFromURL(spec, defaultName)
		return &Output{
			LocalPath:   filepath.Join(dir, name),
			S3URL:       spec,
			fs:          r.fs,
			store:       r.store,
			contentType: contentType,
			tempDir:     dir,
		}, nil
	}

	dir := filepath.Dir(spec)
	if dir != "" && dir != "." {
		if err := r.fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	return &Output{LocalPath: spec, fs: r.fs}, nil
}

// Commit finalizes the output. For s3 destinations the temp file is
// uploaded; local destinations need no action.
func (o *Output) Commit(ctx context.Context) error {
	if o.S3URL == "" {
		return nil
	}
	if err := o.store.Upload(ctx, o.LocalPath, o.S3URL, o.contentType); err != nil {
		return fmt.Errorf("upload %s: %w", o.S3URL, err)
	}
	return nil
}

// WriteJSON marshals v indented and writes it to spec, which may be a
// local path or an s3:// URL. Used for segment and keyframe manifests.
func (r *Resolver) WriteJSON(ctx context.Context, spec string, v interface{}) error {
	out, err := r.ResolveOutput(spec, "manifest.json", "application/json")
	if err != nil {
		return err
	}
	defer out.Close()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := r.fs.WriteFile(out.LocalPath, append(data, '\n')); err != nil {
		return err
	}
	return out.Commit(ctx)
}

// Close removes temp artifacts. It never uploads.
func (o *Output) Close() error {
	if o.tempDir == "" {
		return nil
	}
	return o.fs.RemoveAll(o.tempDir)
}
