// Package storage writes rendered audio and reports to disk. Writes go
// through a sibling temporary file and a rename, so a failed or cancelled
// render never leaves a partial file at the destination.
package storage

import (
	"context"
	"io"
)

// Storage defines the file operations the editor needs.
type Storage interface {
	// WriteAtomic creates or replaces path with whatever write produces.
	// The destination is untouched if write returns an error.
	WriteAtomic(ctx context.Context, path string, write func(w io.WriteSeeker) error) error

	// Open returns a reader for path.
	// The caller is responsible for closing the returned ReadCloser.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Remove deletes the given files.
	// It continues even if some files fail to delete.
	Remove(ctx context.Context, paths []string) error
}
