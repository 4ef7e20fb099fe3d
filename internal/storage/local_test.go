package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach/internal/domain"
)

func TestLocalSaveAndOpen(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	stored, err := store.Save(ctx, "resume.pdf", strings.NewReader("pdf bytes"), 9)
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", stored.Name)
	assert.Equal(t, int64(9), stored.Size)
	assert.True(t, strings.HasSuffix(stored.Key, ".pdf"))

	rc, err := store.Open(ctx, stored.Key)
	require.NoError(t, err)
	defer rc.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, rc)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", buf.String())
}

func TestLocalSaveUniqueKeys(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a, err := store.Save(ctx, "resume.pdf", strings.NewReader("a"), 1)
	require.NoError(t, err)
	b, err := store.Save(ctx, "resume.pdf", strings.NewReader("b"), 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.Key, b.Key)
}

func TestLocalOpenMissing(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "2026/01/nope.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalDeleteIdempotent(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	stored, err := store.Save(ctx, "notes.txt", strings.NewReader("x"), 1)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, stored.Key))
	require.NoError(t, store.Delete(ctx, stored.Key))

	_, err = store.Open(ctx, stored.Key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = store.Delete(context.Background(), "/abs/path")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewKeyRequiresName(t *testing.T) {
	_, err := newKey("   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
