package assets

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dmitrijs2005/movievault/internal/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of the S3 client used by S3Store, kept narrow so
// tests can stub it.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options configures the S3-compatible asset backend (MinIO in dev).
type S3Options struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store keeps assets as objects keyed <category>/<randomId><ext> in a
// single bucket. It honours the same Save/Delete/Replace contract as
// LocalStore; object deletes are naturally idempotent.
type S3Store struct {
	client  s3API
	bucket  string
	baseURL string
	logger  logging.Logger
}

func NewS3Store(ctx context.Context, opts S3Options, baseURL string, logger logging.Logger) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.RootUser,
			opts.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: baseURL,
		logger:  logger.With("component", "assets.s3"),
	}, nil
}

func (s *S3Store) Save(ctx context.Context, content []byte, extension, category string) (string, error) {
	if err := validateSaveArgs(extension, category); err != nil {
		return "", err
	}

	name := randomFileName(extension)
	key := category + "/" + name

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	}); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return joinURL(s.baseURL, category, name), nil
}

func (s *S3Store) Delete(ctx context.Context, fileURL, category string) error {
	if fileURL == "" {
		return nil
	}

	name := fileNameFromURL(fileURL)
	if name == "" || name == "." || name == "/" {
		return nil
	}

	key := category + "/" + name

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

func (s *S3Store) Replace(ctx context.Context, content []byte, extension, category, oldURL string) (string, error) {
	if err := s.Delete(ctx, oldURL, category); err != nil {
		s.logger.Warn(ctx, "could not delete old asset, continuing", "url", oldURL, "error", err.Error())
	}
	return s.Save(ctx, content, extension, category)
}
