// Package storage holds email attachments uploaded by operators, on
// local disk or in S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach/internal/domain"
)

// StoredFile describes one saved attachment.
type StoredFile struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Location string `json:"location"`
}

// Storage saves and retrieves attachment files.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64) (*StoredFile, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// newKey builds a collision-free object key, keeping the original
// extension so downloads get a sensible content type.
func newKey(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", domain.Validationf("file name is required")
	}
	return fmt.Sprintf("%s/%s%s",
		time.Now().UTC().Format("2006/01"),
		uuid.New(),
		strings.ToLower(filepath.Ext(base))), nil
}
