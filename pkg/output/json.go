package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sdejongh/hashtidy/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting.
// Events are buffered and emitted as a single document on Complete.
type JSONFormatter struct {
	mu        sync.Mutex
	writer    io.Writer
	directory string
	events    []JSONEvent
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONDiscoveredData represents the discovery event data
type JSONDiscoveredData struct {
	TotalFiles int   `json:"total_files"`
	TotalBytes int64 `json:"total_bytes"`
	Excluded   int   `json:"excluded"`
	ElapsedMs  int64 `json:"elapsed_ms"`
}

// JSONFileData represents file-related event data
type JSONFileData struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	FilesDiscovered   int   `json:"files_discovered"`
	FilesExcluded     int   `json:"files_excluded"`
	FilesUnchanged    int   `json:"files_unchanged"`
	FilesRenamed      int   `json:"files_renamed"`
	DuplicatesRemoved int   `json:"duplicates_removed"`
	FilesErrored      int   `json:"files_errored"`
	BytesHashed       int64 `json:"bytes_hashed"`
}

// JSONErrorData represents an error record in JSON format
type JSONErrorData struct {
	Path  string `json:"path"`
	Phase string `json:"phase"`
	Error string `json:"error"`
}

// JSONDocument is the complete output document
type JSONDocument struct {
	OperationID string          `json:"operation_id,omitempty"`
	Directory   string          `json:"directory"`
	Mode        string          `json:"mode,omitempty"`
	Status      string          `json:"status"`
	Duration    string          `json:"duration"`
	DurationMs  int64           `json:"duration_ms"`
	Stats       JSONStatsData   `json:"stats"`
	Errors      []JSONErrorData `json:"errors,omitempty"`
	Events      []JSONEvent     `json:"events,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, directory string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.directory = directory
	return nil
}

// Discovered records the discovery event
func (f *JSONFormatter) Discovered(totalFiles int, totalBytes int64, excluded int, elapsed time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, JSONEvent{
		Timestamp: time.Now(),
		Type:      "discovered",
		Data: JSONDiscoveredData{
			TotalFiles: totalFiles,
			TotalBytes: totalBytes,
			Excluded:   excluded,
			ElapsedMs:  elapsed.Milliseconds(),
		},
	})
	return nil
}

// Progress records a per-file event
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := JSONFileData{
		Path:    update.FilePath,
		Outcome: string(update.Outcome),
	}
	if update.Error != nil {
		data.Error = update.Error.Error()
	}

	f.events = append(f.events, JSONEvent{
		Timestamp: time.Now(),
		Type:      update.Type,
		Data:      data,
	})
	return nil
}

// Complete emits the full document
func (f *JSONFormatter) Complete(report *models.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		f.writer = os.Stdout
	}

	doc := JSONDocument{
		OperationID: report.OperationID,
		Directory:   report.Directory,
		Mode:        string(report.Mode),
		Status:      string(report.Status),
		Duration:    report.Duration.Round(time.Millisecond).String(),
		DurationMs:  report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			FilesDiscovered:   report.Stats.FilesDiscovered,
			FilesExcluded:     report.Stats.FilesExcluded,
			FilesUnchanged:    report.Stats.FilesUnchanged,
			FilesRenamed:      report.Stats.FilesRenamed,
			DuplicatesRemoved: report.Stats.DuplicatesRemoved,
			FilesErrored:      report.Stats.FilesErrored,
			BytesHashed:       report.Stats.BytesHashed,
		},
		Events: f.events,
	}

	for _, rec := range report.Errors {
		doc.Errors = append(doc.Errors, JSONErrorData{
			Path:  rec.FilePath,
			Phase: string(rec.Phase),
			Error: rec.Error,
		})
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// Error emits a failure document; on a listing failure Complete is
// never reached, so this is the run's only output
func (f *JSONFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		f.writer = os.Stdout
	}

	doc := JSONDocument{
		Directory: f.directory,
		Status:    string(models.StatusFailed),
		Errors:    []JSONErrorData{{Phase: string(models.PhaseList), Error: err.Error()}},
		Events:    f.events,
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
