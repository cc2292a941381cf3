package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Opener resolves catalog locations to readers.
//
// Supported locations:
//
//	features.yaml               local path
//	file:///etc/flagkit/f.yaml  local path
//	s3://bucket/path/f.yaml     object in S3 or an S3-compatible service
type Opener struct {
	s3 S3Client
}

// Option configures an Opener.
type Option func(*Opener)

// WithS3Client enables s3:// locations.
func WithS3Client(client S3Client) Option {
	return func(o *Opener) { o.s3 = client }
}

// New creates an Opener. Without WithS3Client only local locations work.
func New(opts ...Option) *Opener {
	o := &Opener{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open returns a reader for the location. The caller must close it.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrInvalidURI)
	}

	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return openFile(location)
	}

	switch strings.ToLower(scheme) {
	case "file":
		u, err := url.Parse(location)
		if err != nil {
			return nil, errors.Join(ErrInvalidURI, err)
		}
		return openFile(u.Path)
	case "s3":
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return nil, fmt.Errorf("%w: %q must be s3://bucket/key", ErrInvalidURI, location)
		}
		return o.openS3(ctx, bucket, key)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURI, scheme)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, errors.Join(ErrFailedToOpen, err)
	}
	return f, nil
}

func (o *Opener) openS3(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if o.s3 == nil {
		return nil, ErrS3NotConfigured
	}
	out, err := o.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, bucket, key)
	}
	return out.Body, nil
}
