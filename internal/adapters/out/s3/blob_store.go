// Package s3 stores uploaded documents and deliverables in an S3 bucket and
// issues presigned read URLs for them.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var _ ports.BlobStore = &BlobStore{}

// Config holds the bucket coordinates. Endpoint is optional and enables path
// style addressing for S3 compatible stores such as MinIO.
type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(
		ctx context.Context,
		params *s3.GetObjectInput,
		optFns ...func(*s3.PresignOptions),
	) (*v4.PresignedHTTPRequest, error)
}

type BlobStore struct {
	objects   objectAPI
	presigner presignAPI
	bucket    string
	baseURL   string
}

// NewBlobStore loads AWS configuration with static credentials and builds the
// S3 and presign clients.
func NewBlobStore(ctx context.Context, cfg Config) (*BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, errs.NewValueIsRequiredError("bucket")
	}
	if cfg.Region == "" {
		return nil, errs.NewValueIsRequiredError("region")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newBlobStore(client, s3.NewPresignClient(client), cfg), nil
}

func newBlobStore(objects objectAPI, presigner presignAPI, cfg Config) *BlobStore {
	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &BlobStore{
		objects:   objects,
		presigner: presigner,
		bucket:    cfg.Bucket,
		baseURL:   baseURL,
	}
}

// Put uploads body under key and returns the object URL. The object stays
// private; readers go through SignedURL.
func (b *BlobStore) Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error) {
	if key == "" {
		return "", errs.NewValueIsRequiredError("key")
	}
	if body == nil {
		return "", errs.NewValueIsRequiredError("body")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := b.objects.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return b.baseURL + "/" + key, nil
}

// SignedURL presigns a GET request for key that expires after ttl.
func (b *BlobStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", errs.NewValueIsRequiredError("key")
	}
	if ttl <= 0 {
		return "", errs.NewValueIsInvalidErrorWithCause("ttl", errors.New("must be positive"))
	}

	request, err := b.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return request.URL, nil
}
