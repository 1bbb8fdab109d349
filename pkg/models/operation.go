package models

import (
	"time"
)

// ScanMode defines how the directory listing is filtered
type ScanMode string

const (
	// ScanFast skips entries whose name already looks like a content
	// fingerprint, avoiding re-hashing files organised by a previous run
	ScanFast ScanMode = "fast"
	// ScanFull inspects every entry regardless of its name
	ScanFull ScanMode = "full"
)

// Valid reports whether the scan mode is one of the recognized values.
func (m ScanMode) Valid() bool {
	return m == ScanFast || m == ScanFull
}

// OrganiseOperation represents one organise run's configuration
type OrganiseOperation struct {
	ID         string
	Directory  string
	Mode       ScanMode
	MaxWorkers int
	BufferSize int
	CreatedAt  time.Time
}

// Validate checks if the operation configuration is valid
func (op *OrganiseOperation) Validate() error {
	if op.Directory == "" {
		return &ValidationError{Field: "Directory", Message: "directory is required"}
	}
	if !op.Mode.Valid() {
		return &ValidationError{Field: "Mode", Message: "scan mode must be 'fast' or 'full'"}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
