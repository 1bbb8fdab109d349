package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sdejongh/hashtidy/pkg/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		OperationID: "op-123",
		Directory:   "/tmp/photos",
		Mode:        models.ScanFast,
		Duration:    1500 * time.Millisecond,
		Stats: models.Statistics{
			FilesDiscovered:   3,
			FilesUnchanged:    1,
			FilesRenamed:      1,
			DuplicatesRemoved: 1,
		},
		Status: models.StatusSuccess,
	}
}

func TestHumanFormatterLines(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter()

	if err := f.Start(&buf, "/tmp/photos"); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := f.Discovered(3, 4096, 2, 5*time.Millisecond); err != nil {
		t.Fatalf("Discovered() error: %v", err)
	}
	f.Progress(ProgressUpdate{
		Type:        EventFileComplete,
		FilePath:    "report.pdf",
		Outcome:     models.OutcomeRenamed,
		CurrentFile: 1,
		TotalFiles:  3,
	})
	f.Progress(ProgressUpdate{
		Type:        EventFileError,
		FilePath:    "broken.bin",
		CurrentFile: 2,
		TotalFiles:  3,
		Error:       errors.New("permission denied"),
	})
	f.Complete(sampleReport())

	out := buf.String()
	for _, want := range []string{
		"Discovering files in </tmp/photos>...",
		"Discovered 3 files",
		"2 already organised",
		"Organising 3 files...",
		"[1/3] ✓ report.pdf (renamed)",
		"[2/3] ✗ broken.bin: permission denied",
		"Duplicates removed: 1",
		"Successfully organised directory.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestHumanFormatterFailure(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter()

	f.Start(&buf, "/nope")
	f.Error(errors.New("failed to list files [no such directory]"))

	if !strings.Contains(buf.String(), "Failed to organise directory: failed to list files") {
		t.Errorf("output = %q, want failure line", buf.String())
	}
}

func TestJSONFormatterDocument(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()

	f.Start(&buf, "/tmp/photos")
	f.Discovered(3, 4096, 0, 5*time.Millisecond)
	f.Progress(ProgressUpdate{
		Type:     EventFileComplete,
		FilePath: "report.pdf",
		Outcome:  models.OutcomeRenamed,
	})
	if err := f.Complete(sampleReport()); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	var doc JSONDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput:\n%s", err, buf.String())
	}

	if doc.Status != "success" {
		t.Errorf("Status = %q, want %q", doc.Status, "success")
	}
	if doc.Directory != "/tmp/photos" {
		t.Errorf("Directory = %q, want %q", doc.Directory, "/tmp/photos")
	}
	if doc.Stats.FilesRenamed != 1 {
		t.Errorf("Stats.FilesRenamed = %d, want 1", doc.Stats.FilesRenamed)
	}
	// discovery + one file event
	if len(doc.Events) != 2 {
		t.Errorf("len(Events) = %d, want 2", len(doc.Events))
	}
}

func TestJSONFormatterListFailure(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()

	f.Start(&buf, "/nope")
	if err := f.Error(errors.New("no such directory")); err != nil {
		t.Fatalf("Error() error: %v", err)
	}

	var doc JSONDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Status != "failed" {
		t.Errorf("Status = %q, want %q", doc.Status, "failed")
	}
	if len(doc.Errors) != 1 || doc.Errors[0].Phase != "list" {
		t.Errorf("Errors = %+v, want one list-phase record", doc.Errors)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatBytes(tt.bytes); got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
