package models

import (
	"strings"
	"time"
)

// FileEntry represents one immediate child of the target directory,
// captured at discovery time. The set of entries is a point-in-time
// snapshot: files created or removed afterwards are not observed.
type FileEntry struct {
	// Name is the filename within the directory
	Name string

	// AbsolutePath is the full path on the filesystem
	AbsolutePath string

	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// IsDir indicates if this is a directory
	IsDir bool
}

// Stem returns the filename without its extension.
func (e *FileEntry) Stem() string {
	stem, _ := splitName(e.Name)
	return stem
}

// Ext returns the filename extension including the leading dot,
// or the empty string if the name has none.
func (e *FileEntry) Ext() string {
	_, ext := splitName(e.Name)
	return ext
}

// splitName splits a filename at its final dot. A dot that leads the
// name or ends it does not start an extension: dotfiles like
// ".gitignore" are all stem, and "file." has stem "file" with no
// extension.
func splitName(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	switch {
	case i <= 0:
		return name, ""
	case i == len(name)-1:
		return name[:i], ""
	default:
		return name[:i], name[i:]
	}
}
