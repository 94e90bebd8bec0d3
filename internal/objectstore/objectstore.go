package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Fetcher retrieves the raw bytes of a stored object.
type Fetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// FetchError reports that an object could not be retrieved, either
// because it is absent or because the caller lacks access.
type FetchError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// S3Store fetches objects from S3 using the ambient AWS credentials.
type S3Store struct {
	client *s3.Client
}

// NewS3Store builds an S3Store from the default AWS configuration
// (region and credentials come from the Lambda execution environment).
func NewS3Store(ctx context.Context) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg)}, nil
}

// Fetch reads the full body of one object.
func (s *S3Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &FetchError{Bucket: bucket, Key: key, Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &FetchError{Bucket: bucket, Key: key, Err: err}
	}
	return data, nil
}
