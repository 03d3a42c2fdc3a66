package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PutOpenDelete(t *testing.T) {
	store := NewFileStore(afero.NewMemMapFs())
	ctx := context.Background()

	path := "documents/abc/v1_report.pdf"
	require.NoError(t, store.Put(ctx, path, strings.NewReader("hello world")))

	r, err := store.Open(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "hello world", string(data))

	require.NoError(t, store.Delete(ctx, path))
	_, err = store.Open(ctx, path)
	assert.Error(t, err)
}

func TestFileStore_PutEmptyPath(t *testing.T) {
	store := NewFileStore(afero.NewMemMapFs())
	assert.Error(t, store.Put(context.Background(), "", strings.NewReader("x")))
}

func TestFileStore_PutCanceledContext(t *testing.T) {
	store := NewFileStore(afero.NewMemMapFs())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Put(ctx, "documents/x", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestFileStore_PutReadFailureLeavesNoBlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStore(fs)

	path := "documents/abc/v1_report.pdf"
	err := store.Put(context.Background(), path, failingReader{})
	require.Error(t, err)

	exists, statErr := afero.Exists(fs, path)
	require.NoError(t, statErr)
	assert.False(t, exists, "a failed write must not leave a truncated blob")
}

func TestFileStore_DeleteMissingIsNotAnError(t *testing.T) {
	store := NewFileStore(afero.NewMemMapFs())
	assert.NoError(t, store.Delete(context.Background(), "documents/never-existed"))
}
