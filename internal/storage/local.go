package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// dirPerm is used when creating missing parent directories.
const dirPerm = 0750

// LocalStorage implements the Storage interface using local disk.
type LocalStorage struct {
	filePerm os.FileMode
}

var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance.
// Files are created with mode 0644.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{filePerm: 0644}
}

// WriteAtomic writes to a temporary file next to path and renames it into
// place once write and the final sync succeed. Missing parent directories
// are created.
func (s *LocalStorage) WriteAtomic(ctx context.Context, path string, write func(w io.WriteSeeker) error) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := f.Name()

	fail := func(err error) error {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err := write(f); err != nil {
		return fail(err)
	}

	select {
	case <-ctx.Done():
		return fail(fmt.Errorf("context cancelled: %w", ctx.Err()))
	default:
	}

	if err := f.Sync(); err != nil {
		return fail(fmt.Errorf("sync temp file: %w", err))
	}
	if err := f.Chmod(s.filePerm); err != nil {
		return fail(fmt.Errorf("chmod temp file: %w", err))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// Open opens path for reading.
func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	f, err := os.Open(path) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return f, nil
}

// Remove deletes the specified files.
// It continues cleanup even if some files fail to delete,
// returning the first error encountered. Missing files are ignored.
func (s *LocalStorage) Remove(ctx context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove file %s: %w", p, err)
			}
		}
	}
	return firstErr
}
