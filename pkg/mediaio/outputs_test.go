package mediaio

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awmthink/viseeker/pkg/mocks"
)

func TestResolveOutputLocal(t *testing.T) {
	fs := mocks.NewFileSystem()
	r := NewResolver(fs, nil)

	out, err := r.ResolveOutput("/out/video.mp4", "converted.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("ResolveOutput: %v", err)
	}
	defer out.Close()

	if out.LocalPath != "/out/video.mp4" || out.S3URL != "" {
		t.Errorf("output = %+v", out)
	}
	if ok, _ := fs.Exists("/out"); !ok {
		t.Error("parent dir not created")
	}
	if err := out.Commit(context.Background()); err != nil {
		t.Errorf("commit: %v", err)
	}
}

func TestResolveOutputS3(t *testing.T) {
	fs := mocks.NewFileSystem()
	store := &mocks.ObjectStore{}
	r := NewResolver(fs, store)

	out, err := r.ResolveOutput("s3://bucket/out/video.mp4", "converted.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("ResolveOutput: %v", err)
	}
	if out.S3URL != "s3://bucket/out/video.mp4" {
		t.Errorf("s3 url = %q", out.S3URL)
	}
	if filepath.Base(out.LocalPath) != "video.mp4" {
		t.Errorf("local path = %q", out.LocalPath)
	}

	fs.SetFile(out.LocalPath, []byte("encoded"))
	if err := out.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(store.Uploads) != 1 {
		t.Fatalf("uploads = %v", store.Uploads)
	}
	up := store.Uploads[0]
	if up.SrcPath != out.LocalPath || up.URL != out.S3URL || up.ContentType != "video/mp4" {
		t.Errorf("upload = %+v", up)
	}

	if err := out.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := fs.ReadFile(out.LocalPath); err == nil {
		t.Error("temp file not cleaned up")
	}
}

func TestResolveOutputS3WithoutStore(t *testing.T) {
	r := NewResolver(mocks.NewFileSystem(), nil)
	if _, err := r.ResolveOutput("s3://bucket/a.mp4", "a.mp4", "video/mp4"); err == nil {
		t.Error("expected an error")
	}
}

func TestResolveOutputEmptySpec(t *testing.T) {
	r := NewResolver(mocks.NewFileSystem(), nil)
	if _, err := r.ResolveOutput("", "a.mp4", "video/mp4"); err == nil {
		t.Error("expected an error")
	}
}

func TestWriteJSONLocal(t *testing.T) {
	fs := mocks.NewFileSystem()
	r := NewResolver(fs, nil)

	v := map[string]int{"segments": 3}
	if err := r.WriteJSON(context.Background(), "/out/manifest.json", v); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := fs.ReadFile("/out/manifest.json")
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "\"segments\": 3") {
		t.Errorf("content = %q", s)
	}
	if !strings.HasSuffix(s, "\n") {
		t.Error("manifest must end with a newline")
	}
}

func TestWriteJSONS3(t *testing.T) {
	fs := mocks.NewFileSystem()
	store := &mocks.ObjectStore{}
	r := NewResolver(fs, store)

	if err := r.WriteJSON(context.Background(), "s3://bucket/out/manifest.json", []int{1, 2}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if len(store.Uploads) != 1 || store.Uploads[0].ContentType != "application/json" {
		t.Errorf("uploads = %+v", store.Uploads)
	}
	if store.Uploads[0].URL != "s3://bucket/out/manifest.json" {
		t.Errorf("url = %q", store.Uploads[0].URL)
	}
}
