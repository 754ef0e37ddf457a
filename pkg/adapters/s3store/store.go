// Package s3store implements ports.ObjectStore for S3-compatible
// object storage via the MinIO client, so AWS S3, MinIO, and R2 style
// endpoints all work through one adapter.
package s3store

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/awmthink/viseeker/pkg/mediaio"
	"github.com/awmthink/viseeker/pkg/ports"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "s3.amazonaws.com"

// Options configure the store. Nil UseHTTPS and VerifySSL default to
// true. Empty credentials fall back to the AWS environment variables.
type Options struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseHTTPS        *bool
	VerifySSL       *bool
}

// Store is an ObjectStore backed by an S3-compatible endpoint.
type Store struct {
	client *minio.Client
	logger ports.Logger
}

// New creates a Store from opts.
func New(opts Options, logger ports.Logger) (*Store, error) {
	endpoint, secure := normalizeEndpoint(opts.Endpoint, opts.UseHTTPS)

	creds := credentials.NewEnvAWS()
	if opts.AccessKeyID != "" || opts.SecretAccessKey != "" {
		creds = credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, "")
	}

	mopts := &minio.Options{Creds: creds, Secure: secure}
	if opts.VerifySSL != nil && !*opts.VerifySSL {
		mopts.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	client, err := minio.New(endpoint, mopts)
	if err != nil {
		return nil, err
	}
	return &Store{client: client, logger: logger.WithComponent("s3")}, nil
}

// normalizeEndpoint strips an explicit scheme from the configured
// endpoint. A scheme wins over the UseHTTPS flag; absent both, HTTPS.
func normalizeEndpoint(endpoint string, useHTTPS *bool) (host string, secure bool) {
	secure = useHTTPS == nil || *useHTTPS
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), false
	case endpoint == "":
		return DefaultEndpoint, secure
	default:
		return endpoint, secure
	}
}

// Download fetches an s3://bucket/key object to destPath.
func (s *Store) Download(ctx context.Context, objectURL, destPath string) error {
	bucket, key, err := mediaio.ParseS3URL(objectURL)
	if err != nil {
		return err
	}
	s.logger.Debug("Downloading s3://%s/%s", bucket, key)
	return s.client.FGetObject(ctx, bucket, key, destPath, minio.GetObjectOptions{})
}

// Upload stores srcPath at an s3://bucket/key URL.
func (s *Store) Upload(ctx context.Context, srcPath, objectURL, contentType string) error {
	bucket, key, err := mediaio.ParseS3URL(objectURL)
	if err != nil {
		return err
	}
	s.logger.Debug("Uploading s3://%s/%s", bucket, key)
	_, err = s.client.FPutObject(ctx, bucket, key, srcPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Presign returns a time-limited HTTPS URL for an s3://bucket/key
// object, letting the external binaries read it without credentials.
func (s *Store) Presign(ctx context.Context, objectURL string, expiry time.Duration) (string, error) {
	bucket, key, err := mediaio.ParseS3URL(objectURL)
	if err != nil {
		return "", err
	}
	u, err := s.client.PresignedGetObject(ctx, bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

var _ ports.ObjectStore = (*Store)(nil)
