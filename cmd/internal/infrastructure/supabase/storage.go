package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

const objectPrefix = "notes/"

// BucketAPI is the subset of the storage-go client used by Storage.
type BucketAPI interface {
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage.FileOptions) (storage.FileUploadResponse, error)
	RemoveFile(bucketId string, paths []string) ([]storage.FileUploadResponse, error)
}

// Storage uploads notes to a public Supabase Storage bucket.
type Storage struct {
	bucket    string
	publicURL string
	client    BucketAPI
}

func NewStorage(supabaseURL, key, bucket string) (*Storage, error) {
	if supabaseURL == "" || key == "" {
		return nil, errors.New("supabase url and key are required")
	}

	client := storage.NewClient(strings.TrimRight(supabaseURL, "/")+"/storage/v1", key, nil)
	return NewStorageWithClient(client, supabaseURL, bucket), nil
}

func NewStorageWithClient(client BucketAPI, supabaseURL, bucket string) *Storage {
	return &Storage{
		bucket:    bucket,
		publicURL: fmt.Sprintf("%s/storage/v1/object/public/%s/", strings.TrimRight(supabaseURL, "/"), bucket),
		client:    client,
	}
}

func (s *Storage) Upload(_ context.Context, data []byte, filename, contentType string) (string, error) {
	if filename == "" {
		return "", errors.New("filename is empty")
	}

	objectPath := objectPrefix + filename
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	_, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(data), options)
	if err != nil {
		return "", err
	}
	return s.publicURL + objectPath, nil
}

func (s *Storage) Delete(_ context.Context, ref string) error {
	objectPath, ok := strings.CutPrefix(ref, s.publicURL)
	if !ok || objectPath == "" {
		return fmt.Errorf("reference %q does not belong to bucket %s", ref, s.bucket)
	}

	_, err := s.client.RemoveFile(s.bucket, []string{objectPath})
	return err
}
