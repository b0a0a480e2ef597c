package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const PathAttachments = "attachments/"

// ObjectAPI is the subset of the S3 client used by S3Storage.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
	bucket  string
	baseURL string
	client  ObjectAPI
}

func NewS3Storage(ctx context.Context, region, bucket string) (*S3Storage, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket name is empty")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewS3StorageWithClient(s3.NewFromConfig(cfg), region, bucket), nil
}

func NewS3StorageWithClient(client ObjectAPI, region, bucket string) *S3Storage {
	return &S3Storage{
		bucket:  bucket,
		baseURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region),
		client:  client,
	}
}

// Upload stores data under the attachments prefix and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if filename == "" {
		return "", errors.New("filename is empty")
	}

	key := PathAttachments + filename
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		return "", err
	}
	return s.baseURL + key, nil
}

// Delete removes the object behind a URL returned by Upload.
//
// It is idempotent: it returns nil if the object does not exist.
func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, s.baseURL)
	if !ok || key == "" {
		return fmt.Errorf("reference %q does not belong to bucket %s", ref, s.bucket)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil
	}
	return err
}
