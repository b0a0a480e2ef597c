package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStorage keeps uploads in a local directory that the HTTP server
// exposes under PublicPrefix.
type DiskStorage struct {
	dir          string
	publicPrefix string
}

func NewDiskStorage(dir, publicPrefix string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskStorage{
		dir:          dir,
		publicPrefix: strings.TrimRight(publicPrefix, "/"),
	}, nil
}

func (d *DiskStorage) Dir() string {
	return d.dir
}

func (d *DiskStorage) Upload(_ context.Context, data []byte, filename, _ string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid file name %q", filename)
	}

	err := os.WriteFile(filepath.Join(d.dir, filename), data, 0o644)
	if err != nil {
		return "", err
	}
	return path.Join(d.publicPrefix, filename), nil
}

// Delete removes a previously uploaded file. Missing files are ignored.
func (d *DiskStorage) Delete(_ context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, d.publicPrefix+"/")
	if !ok || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("reference %q is not a local upload", ref)
	}

	err := os.Remove(filepath.Join(d.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
