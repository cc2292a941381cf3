package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of *s3.Client used to fetch catalogs.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures the client used for s3:// locations.
type S3Config struct {
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	// Endpoint and ForcePathStyle target S3-compatible services like MinIO.
	Endpoint       string `env:"S3_ENDPOINT"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// S3Option configures NewS3Client.
type S3Option func(*s3Options)

type s3Options struct {
	httpClient      *http.Client
	configOptions   []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3.Options)
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) S3Option {
	return func(o *s3Options) { o.httpClient = client }
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) { o.configOptions = append(o.configOptions, option) }
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3.Options)) S3Option {
	return func(o *s3Options) { o.s3ClientOptions = append(o.s3ClientOptions, option) }
}

// NewS3Client builds an S3 client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg S3Config, opts ...S3Option) (*s3.Client, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrInvalidConfig)
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	awsOptions := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	if options.httpClient != nil {
		awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
	}
	awsOptions = append(awsOptions, options.configOptions...)

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
	}

	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
		for _, opt := range options.s3ClientOptions {
			opt(o)
		}
	}), nil
}

// classifyS3Error converts S3 errors to package errors.
func classifyS3Error(err error, bucket, key string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: s3://%s/%s", ErrOperationTimeout, bucket, key)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: s3://%s/%s", ErrOperationCanceled, bucket, key)
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: s3://%s/%s", ErrNotFound, bucket, key)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: s3://%s/%s", ErrNotFound, bucket, key)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		case "AccessDenied":
			return fmt.Errorf("%w: s3://%s/%s", ErrAccessDenied, bucket, key)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		default:
			return fmt.Errorf("get object failed (code: %s): %w", apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("get object failed: %w", err)
}
