// Package storage provides the blob store the document data layer writes
// version content to. The store is consumed purely as a byte-stream store
// keyed by a generated path; backends are afero filesystems so tests can
// run against an in-memory filesystem.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/spf13/afero"
)

// Store persists version content by path.
//
// Put must durably persist before returning: the caller commits a version
// row pointing at the path only after Put succeeds, so a failed Put aborts
// the enclosing transaction.
type Store interface {
	// Put writes the full contents of r to the given path, creating
	// parent directories as needed.
	Put(ctx context.Context, p string, r io.Reader) error

	// Open returns a reader for the blob at the given path.
	Open(ctx context.Context, p string) (io.ReadCloser, error)

	// Delete removes the blob at the given path. Deleting a missing blob
	// is not an error.
	Delete(ctx context.Context, p string) error
}

// FileStore is an afero-backed Store. Use afero.NewOsFs rooted via
// afero.NewBasePathFs for on-disk storage, or afero.NewMemMapFs in tests.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore creates a Store over the given filesystem.
func NewFileStore(fs afero.Fs) *FileStore {
	return &FileStore{fs: fs}
}

// Put implements Store.
func (s *FileStore) Put(ctx context.Context, p string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == "" {
		return fmt.Errorf("storage path cannot be empty")
	}

	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	f, err := s.fs.Create(p)
	if err != nil {
		return fmt.Errorf("failed to create blob %s: %w", p, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		// Best effort: do not leave a truncated blob behind.
		s.fs.Remove(p)
		return fmt.Errorf("failed to write blob %s: %w", p, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finalize blob %s: %w", p, err)
	}
	return nil
}

// Open implements Store.
func (s *FileStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", p, err)
	}
	return f, nil
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil {
		if exists, statErr := afero.Exists(s.fs, p); statErr == nil && !exists {
			return nil
		}
		return fmt.Errorf("failed to delete blob %s: %w", p, err)
	}
	return nil
}
