package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sdejongh/hashtidy/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	mu         sync.Mutex
	writer     io.Writer
	totalFiles int
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, directory string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	fmt.Fprintf(f.writer, "Discovering files in <%s>...\n", directory)
	return nil
}

// Discovered reports the discovery phase outcome
func (f *HumanFormatter) Discovered(totalFiles int, totalBytes int64, excluded int, elapsed time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.totalFiles = totalFiles

	if excluded > 0 {
		fmt.Fprintf(f.writer, "Discovered %d files (%s, %d already organised) in %s.\n",
			totalFiles, formatBytes(totalBytes), excluded, elapsed.Round(time.Microsecond))
	} else {
		fmt.Fprintf(f.writer, "Discovered %d files (%s) in %s.\n",
			totalFiles, formatBytes(totalBytes), elapsed.Round(time.Microsecond))
	}
	fmt.Fprintf(f.writer, "Organising %d files...\n", totalFiles)
	return nil
}

// Progress reports one file reaching a terminal outcome
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch update.Type {
	case EventFileComplete:
		fmt.Fprintf(f.writer, "[%d/%d] ✓ %s (%s)\n",
			update.CurrentFile, f.totalFiles,
			update.FilePath, outcomeLabel(update.Outcome))

	case EventFileError:
		fmt.Fprintf(f.writer, "[%d/%d] ✗ %s: %v\n",
			update.CurrentFile, f.totalFiles,
			update.FilePath, update.Error)
	}

	return nil
}

// Complete finalizes output and displays the run summary
func (f *HumanFormatter) Complete(report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		f.writer = io.Discard
	}

	writeSummary(f.writer, report)
	return nil
}

// Error reports a run-level failure
func (f *HumanFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		f.writer = os.Stdout
	}
	fmt.Fprintf(f.writer, "Failed to organise directory: %v.\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// writeSummary prints the end-of-run block shared by the human and
// progress formatters.
func writeSummary(w io.Writer, report *models.Report) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Organise completed in %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Files discovered:   %d\n", report.Stats.FilesDiscovered)
	if report.Stats.FilesExcluded > 0 {
		fmt.Fprintf(w, "  Files excluded:     %d\n", report.Stats.FilesExcluded)
	}
	fmt.Fprintf(w, "  Files unchanged:    %d\n", report.Stats.FilesUnchanged)
	fmt.Fprintf(w, "  Files renamed:      %d\n", report.Stats.FilesRenamed)
	fmt.Fprintf(w, "  Duplicates removed: %d\n", report.Stats.DuplicatesRemoved)
	fmt.Fprintf(w, "  Files errored:      %d\n", report.Stats.FilesErrored)
	fmt.Fprintf(w, "  Data hashed:        %s\n", formatBytes(report.Stats.BytesHashed))

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, rec := range report.Errors {
			fmt.Fprintf(w, "  %s: %s\n", rec.FilePath, rec.Error)
		}
	}

	fmt.Fprintf(w, "\n")
	if report.Status == models.StatusFailed {
		fmt.Fprintf(w, "Failed to organise directory.\n")
	} else {
		fmt.Fprintf(w, "Successfully organised directory.\n")
	}
}

func outcomeLabel(outcome models.Outcome) string {
	switch outcome {
	case models.OutcomeUnchanged:
		return "unchanged"
	case models.OutcomeRenamed:
		return "renamed"
	case models.OutcomeDuplicateRemoved:
		return "duplicate removed"
	default:
		return string(outcome)
	}
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
