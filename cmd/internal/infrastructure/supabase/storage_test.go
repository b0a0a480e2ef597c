package supabase

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage "github.com/supabase-community/storage-go"
)

type fakeBucket struct {
	uploaded map[string]string
	removed  []string
}

func (f *fakeBucket) UploadFile(bucketId string, path string, data io.Reader, opts ...storage.FileOptions) (storage.FileUploadResponse, error) {
	body, err := io.ReadAll(data)
	if err != nil {
		return storage.FileUploadResponse{}, err
	}
	f.uploaded[bucketId+"/"+path] = *opts[0].ContentType + ":" + string(body)
	return storage.FileUploadResponse{}, nil
}

func (f *fakeBucket) RemoveFile(bucketId string, paths []string) ([]storage.FileUploadResponse, error) {
	for _, p := range paths {
		f.removed = append(f.removed, bucketId+"/"+p)
	}
	return nil, nil
}

func TestStorage_UploadAndDelete(t *testing.T) {
	bucket := &fakeBucket{uploaded: map[string]string{}}
	store := NewStorageWithClient(bucket, "https://proj.supabase.co/", "uploads")

	url, err := store.Upload(context.Background(), []byte("%PDF"), "n.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/uploads/notes/n.pdf", url)
	assert.Equal(t, "application/pdf:%PDF", bucket.uploaded["uploads/notes/n.pdf"])

	require.NoError(t, store.Delete(context.Background(), url))
	assert.Equal(t, []string{"uploads/notes/n.pdf"}, bucket.removed)

	assert.Error(t, store.Delete(context.Background(), "https://other/x.pdf"))
}
