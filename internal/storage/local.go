package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ignite/outreach/internal/domain"
)

// Local stores attachments under a directory on disk.
type Local struct {
	root string
}

// NewLocal creates a disk-backed store rooted at dir.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Local{root: dir}, nil
}

// Save writes the file under a generated key.
func (l *Local) Save(_ context.Context, name string, r io.Reader, size int64) (*StoredFile, error) {
	key, err := newKey(name)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &StoredFile{
		Key:      key,
		Name:     filepath.Base(name),
		Size:     written,
		Location: path,
	}, nil
}

// Open returns the stored file's contents.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, domain.NotFoundf("file %s not found", key)
	}
	return f, err
}

// Delete removes a stored file. Missing files are a no-op.
func (l *Local) Delete(_ context.Context, key string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve rejects keys that escape the upload root.
func (l *Local) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", domain.Validationf("invalid file key")
	}
	return filepath.Join(l.root, clean), nil
}
