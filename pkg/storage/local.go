package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Local is a filesystem-based storage backend scoped to one directory
type Local struct {
	rootPath string
}

// NewLocal creates a new local filesystem backend
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	return &Local{rootPath: absPath}, nil
}

// List returns the directory's immediate children
func (l *Local) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(l.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		info, err := entry.Info()
		if err != nil {
			// Entry disappeared between listing and stat; the snapshot
			// simply does not include it.
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(l.rootPath, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   entry.IsDir(),
		})
	}

	return files, nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(l.rootPath, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, name string) (*FileInfo, error) {
	fullPath := filepath.Join(l.rootPath, name)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileInfo{
		Name:    name,
		Path:    fullPath,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// Exists checks if a file exists
func (l *Local) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.rootPath, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Rename atomically moves a file to a new name within the directory
func (l *Local) Rename(ctx context.Context, oldName, newName string) error {
	err := os.Rename(filepath.Join(l.rootPath, oldName), filepath.Join(l.rootPath, newName))
	if err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}

	return nil
}

// Delete removes a file
func (l *Local) Delete(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(l.rootPath, name))
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// Chtimes sets a file's modification time
func (l *Local) Chtimes(ctx context.Context, name string, modTime time.Time) error {
	err := os.Chtimes(filepath.Join(l.rootPath, name), modTime, modTime)
	if err != nil {
		return fmt.Errorf("failed to set modification time: %w", err)
	}

	return nil
}

// Root returns the absolute directory path
func (l *Local) Root() string {
	return l.rootPath
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}
