// Package mediaio resolves tool input and output specifications.
// Inputs may be local paths, HTTP(S) URLs, or s3://bucket/key URLs;
// outputs may be local paths or s3:// URLs uploaded on success.
package mediaio

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// IsHTTPURL reports whether spec is an http:// or https:// URL.
func IsHTTPURL(spec string) bool {
	u, err := url.Parse(spec)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// IsS3URL reports whether spec is an s3://bucket/key URL.
func IsS3URL(spec string) bool {
	u, err := url.Parse(spec)
	if err != nil {
		return false
	}
	return u.Scheme == "s3"
}

// IsLocalSpec reports whether spec is a plain filesystem path rather
// than an http(s) or s3 URL.
func IsLocalSpec(spec string) bool {
	return !IsHTTPURL(spec) && !IsS3URL(spec)
}

// ParseS3URL splits an s3://bucket/key URL into bucket and key.
func ParseS3URL(spec string) (bucket, key string, err error) {
	u, err := url.Parse(spec)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("unsupported S3 URL: %s", spec)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("unsupported S3 URL (missing key): %s", spec)
	}
	return u.Host, key, nil
}

// JoinS3URL joins an s3:// prefix URL and a key suffix.
func JoinS3URL(prefix, key string) (string, error) {
	u, err := url.Parse(prefix)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", fmt.Errorf("unsupported S3 prefix: %s", prefix)
	}
	joined := path.Join(strings.Trim(u.Path, "/"), strings.TrimPrefix(key, "/"))
	return fmt.Sprintf("s3://%s/%s", u.Host, joined), nil
}

// filenameFromURL extracts the base filename from a URL path, falling
// back when the path has none.
func filenameFromURL(spec, fallback string) string {
	u, err := url.Parse(spec)
	if err != nil {
		return fallback
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}
