package source

import "errors"

var (
	ErrInvalidURI         = errors.New("invalid source uri")
	ErrNotFound           = errors.New("source not found")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
	ErrS3NotConfigured    = errors.New("s3 client not configured")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
	ErrFailedToOpen       = errors.New("failed to open source")
)
