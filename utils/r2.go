// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config names a Cloudflare R2 bucket and the key pair allowed to write it.
// Endpoint overrides the account endpoint, for S3-compatible stores.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Endpoint        string
}

// Enabled reports whether enough is set to talk to a bucket.
func (c R2Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.AccessKeySecret != "" &&
		(c.AccountID != "" || c.Endpoint != "")
}

func (c R2Config) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

// R2Uploader writes objects to one bucket.
type R2Uploader struct {
	client *s3.Client
	bucket string
}

func NewR2Uploader(ctx context.Context, cfg R2Config) (*R2Uploader, error) {
	if !cfg.Enabled() {
		return nil, errors.New("r2 bucket and credentials are required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.endpoint())
		o.UsePathStyle = true
	})
	return &R2Uploader{client: client, bucket: cfg.Bucket}, nil
}

// Upload stores body under key, replacing any existing object.
func (u *R2Uploader) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to R2: %w", key, err)
	}
	return nil
}
