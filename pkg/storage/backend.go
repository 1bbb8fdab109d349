package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Backend defines the interface for storage operations scoped to a single
// directory. File names are relative to that directory; no operation
// descends into subdirectories.
type Backend interface {
	// List returns the directory's immediate children
	List(ctx context.Context) ([]FileInfo, error)

	// Read opens a file for reading
	Read(ctx context.Context, name string) (io.ReadCloser, error)

	// Stat returns file metadata
	Stat(ctx context.Context, name string) (*FileInfo, error)

	// Exists checks if a file exists
	Exists(ctx context.Context, name string) (bool, error)

	// Rename atomically moves a file to a new name within the directory
	Rename(ctx context.Context, oldName, newName string) error

	// Delete removes a file
	Delete(ctx context.Context, name string) error

	// Chtimes sets a file's modification time
	Chtimes(ctx context.Context, name string, modTime time.Time) error

	// Root returns the absolute directory path
	Root() string

	// Close releases any resources held by the backend
	Close() error
}
