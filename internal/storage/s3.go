package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ignite/outreach/internal/domain"
)

// S3 stores attachments in an S3 bucket.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3-backed store using the ambient AWS credential
// chain.
func NewS3(ctx context.Context, bucket, region string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Save uploads the file under a generated key.
func (s *S3) Save(ctx context.Context, name string, r io.Reader, size int64) (*StoredFile, error) {
	key, err := newKey(name)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading to s3: %w", err)
	}

	return &StoredFile{
		Key:      key,
		Name:     name,
		Size:     size,
		Location: fmt.Sprintf("s3://%s/%s", s.bucket, key),
	}, nil
}

// Open streams the stored object.
func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, domain.NotFoundf("file %s not found", key)
		}
		return nil, fmt.Errorf("fetching from s3: %w", err)
	}
	return out.Body, nil
}

// Delete removes the stored object. S3 deletes are idempotent.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting from s3: %w", err)
	}
	return nil
}
