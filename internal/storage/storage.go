// Package storage holds media bytes in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pickteum-api/internal/config"
	"github.com/rs/zerolog"
)

// ObjectStore stores and removes media objects and computes their public URLs
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// S3Store is an ObjectStore backed by an S3-compatible bucket (AWS S3, R2, MinIO)
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	log           zerolog.Logger
}

// NewS3Store builds an S3 client from cfg.
// Static credentials are used when an access key is configured, otherwise the default chain.
func NewS3Store(ctx context.Context, cfg *config.StorageConfig, log zerolog.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	publicBase := cfg.PublicBaseURL
	if publicBase == "" && cfg.Endpoint != "" {
		publicBase = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	log.Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Msg("Object storage configured")

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(publicBase, "/"),
		log:           log.With().Str("component", "storage").Logger(),
	}, nil
}

// Put uploads an object
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	s.log.Debug().Str("key", key).Int64("size", size).Msg("Object uploaded")
	return nil
}

// Delete removes an object. Deleting a missing key is not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL readers fetch the object from
func (s *S3Store) PublicURL(key string) string {
	return PublicURL(s.publicBaseURL, key)
}

// PublicURL joins a base URL and an object key
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
