package output

import (
	"io"
	"time"

	"github.com/sdejongh/hashtidy/pkg/models"
)

// Progress event types
const (
	EventFileComplete = "file_complete"
	EventFileError    = "file_error"
)

// ProgressUpdate represents a per-file notification during the run
type ProgressUpdate struct {
	Type        string // "file_complete" or "file_error"
	FilePath    string
	Outcome     models.Outcome
	CurrentFile int
	TotalFiles  int
	Error       error
}

// Formatter defines the interface for output formatting.
// Implementations include human-readable, JSON and progress-bar output.
// Progress may be called from multiple worker goroutines concurrently.
type Formatter interface {
	// Start initializes the formatter for a new run; a nil writer
	// defaults to stdout
	Start(writer io.Writer, directory string) error

	// Discovered reports the discovery phase outcome
	Discovered(totalFiles int, totalBytes int64, excluded int, elapsed time.Duration) error

	// Progress reports one file reaching a terminal outcome
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the run summary
	Complete(report *models.Report) error

	// Error reports a run-level failure
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
