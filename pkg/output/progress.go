package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/sdejongh/hashtidy/pkg/models"
)

// progressTemplate renders file counters, the bar and an ETA
const progressTemplate = `{{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{rtime . "ETA %s"}}`

// ProgressFormatter renders a progress bar while files are organised.
// Worker goroutines report completions concurrently; the bar handles
// its own synchronization, the formatter guards the rest.
type ProgressFormatter struct {
	mu     sync.Mutex
	writer io.Writer
	bar    *pb.ProgressBar
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, directory string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	fmt.Fprintf(f.writer, "Discovering files in <%s>...\n", directory)
	return nil
}

// Discovered starts the bar once the candidate count is known
func (f *ProgressFormatter) Discovered(totalFiles int, totalBytes int64, excluded int, elapsed time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fmt.Fprintf(f.writer, "Discovered %d files (%s) in %s.\n",
		totalFiles, formatBytes(totalBytes), elapsed.Round(time.Microsecond))

	f.bar = pb.New(totalFiles)
	f.bar.SetTemplateString(progressTemplate)
	f.bar.SetWriter(f.writer)
	f.bar.Start()
	return nil
}

// Progress advances the bar by one file
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil {
		f.bar.Increment()
	}
	return nil
}

// Complete stops the bar and prints the run summary
func (f *ProgressFormatter) Complete(report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	if f.writer == nil {
		f.writer = io.Discard
	}

	writeSummary(f.writer, report)
	return nil
}

// Error reports a run-level failure
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	if f.writer == nil {
		f.writer = os.Stdout
	}
	fmt.Fprintf(f.writer, "Failed to organise directory: %v.\n", err)
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
