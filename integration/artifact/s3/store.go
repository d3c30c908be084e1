package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mlfoundry/expkit/core/artifact"
	"github.com/mlfoundry/expkit/core/logger"
)

// Compile-time check that Store implements the artifact.Store interface.
var _ artifact.Store = (*Store)(nil)

// S3Client defines the S3 operations used by Store.
type S3Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
}

// Store keeps named artifacts as objects in an S3 bucket, encoded with a
// configurable codec. It mirrors the local artifact.FileStore so experiment
// results can move between disk and object storage without code changes.
type Store struct {
	client        S3Client
	bucket        string
	prefix        string
	codec         artifact.Codec
	uploadTimeout time.Duration
	logger        *slog.Logger
}

// Config contains configuration for the S3 artifact store.
type Config struct {
	Bucket      string `env:"EXPKIT_S3_BUCKET"`
	Region      string `env:"EXPKIT_S3_REGION"`
	AccessKeyID string `env:"EXPKIT_S3_ACCESS_KEY_ID"`
	SecretKey   string `env:"EXPKIT_S3_SECRET_KEY"`
	// Endpoint points at S3-compatible services like MinIO.
	Endpoint string `env:"EXPKIT_S3_ENDPOINT"`
	// Prefix namespaces all object keys, e.g. "experiments/mnist".
	Prefix string `env:"EXPKIT_S3_PREFIX"`
	// ForcePathStyle is required for MinIO and some S3-compatible services.
	ForcePathStyle bool `env:"EXPKIT_S3_FORCE_PATH_STYLE"`
}

// Option configures a Store.
type Option func(*options)

type options struct {
	s3Client        S3Client
	httpClient      *http.Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3aws.Options)
	codec           artifact.Codec
	uploadTimeout   time.Duration
	logger          *slog.Logger
}

// WithS3Client sets a custom pre-configured S3 client. Primarily used for
// testing with mocks.
func WithS3Client(client S3Client) Option {
	return func(o *options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithConfigOption adds a custom AWS config option.
func WithConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithClientOption adds a custom S3 client option.
func WithClientOption(option func(*s3aws.Options)) Option {
	return func(o *options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// WithCodec sets the artifact serialization codec. Default is indented JSON.
func WithCodec(codec artifact.Codec) Option {
	return func(o *options) {
		if codec != nil {
			o.codec = codec
		}
	}
}

// WithUploadTimeout bounds individual save operations. If not set, the
// caller's context deadline applies.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.uploadTimeout = timeout
	}
}

// WithLogger configures structured logging of store operations. Logging is
// discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an S3-backed artifact store. Supports both AWS S3 and
// S3-compatible services via the Endpoint config field.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	o := &options{
		codec:  artifact.JSONCodec{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	client := o.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		// Static credentials if provided, IAM roles or env vars otherwise.
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}
		awsOptions = append(awsOptions, o.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("s3: load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range o.s3ClientOptions {
				opt(so)
			}
		})
	}

	return &Store{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		codec:         o.codec,
		uploadTimeout: o.uploadTimeout,
		logger:        o.logger,
	}, nil
}

// Key returns the object key an artifact name maps to.
func (s *Store) Key(name string) string {
	key := name + "." + s.codec.Ext()
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	return key
}

// Save serializes v and uploads it under the artifact's object key.
func (s *Store) Save(ctx context.Context, name string, v any) error {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("s3: encode artifact %s: %w", name, err)
	}

	key := s.Key(name)
	_, err = s.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(s.codec)),
	})
	if err != nil {
		return classifyError(err, "save artifact "+name)
	}

	s.logger.Debug("artifact uploaded",
		logger.Bucket(s.bucket),
		logger.ObjectKey(key),
		logger.Bytes(len(data)))
	return nil
}

// Load downloads the named artifact and decodes it into v.
func (s *Store) Load(ctx context.Context, name string, v any) error {
	resp, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(name)),
	})
	if err != nil {
		return classifyError(err, "load artifact "+name)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("s3: read artifact %s: %w", name, err)
	}
	if err := s.codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("s3: decode artifact %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the named artifact is present in the bucket.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(name)),
	})
	if err != nil {
		err = classifyError(err, "check artifact "+name)
		if errors.Is(err, artifact.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the named artifact. S3 object deletion is idempotent, so
// deleting a missing artifact is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(name)),
	})
	if err != nil {
		return classifyError(err, "delete artifact "+name)
	}
	return nil
}

func contentType(codec artifact.Codec) string {
	switch codec.Ext() {
	case "json":
		return "application/json"
	case "yaml", "yml":
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}
