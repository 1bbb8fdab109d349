package organise

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sdejongh/hashtidy/pkg/fingerprint"
	"github.com/sdejongh/hashtidy/pkg/logging"
	"github.com/sdejongh/hashtidy/pkg/models"
	"github.com/sdejongh/hashtidy/pkg/storage"
)

// helloSum is the MD5 of "hello world"
const helloSum = "5eb63bbbe01eeed093cb22bb8f5acdc3"

func newOrganiser(backend storage.Backend) *Organiser {
	return NewOrganiser(backend, fingerprint.NewHasher(65536), logging.NewNullLogger())
}

func entryFor(t *testing.T, backend *storage.Local, name string) *models.FileEntry {
	t.Helper()
	info, err := backend.Stat(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to stat %s: %v", name, err)
	}
	return &models.FileEntry{
		Name:         name,
		AbsolutePath: info.Path,
		Size:         info.Size,
		ModTime:      info.ModTime,
	}
}

func TestProcessRenamesNewFile(t *testing.T) {
	backend, dir := newTestDir(t)
	createFile(t, dir, "report.pdf", []byte("hello world"))

	result := newOrganiser(backend).Process(context.Background(), entryFor(t, backend, "report.pdf"))

	if result.Outcome != models.OutcomeRenamed {
		t.Fatalf("Outcome = %q, want %q (err: %v)", result.Outcome, models.OutcomeRenamed, result.Err)
	}
	if result.Fingerprint != helloSum {
		t.Errorf("Fingerprint = %q, want %q", result.Fingerprint, helloSum)
	}

	if _, err := os.Stat(filepath.Join(dir, "report.pdf")); !os.IsNotExist(err) {
		t.Error("original file still exists after rename")
	}
	content, err := os.ReadFile(filepath.Join(dir, helloSum+".pdf"))
	if err != nil {
		t.Fatalf("canonical file unreadable: %v", err)
	}
	if string(content) != "hello world" {
		t.Errorf("canonical content = %q, want %q", content, "hello world")
	}
}

func TestProcessKeepsExtensionlessFileBare(t *testing.T) {
	backend, dir := newTestDir(t)
	createFile(t, dir, "LICENSE", []byte("hello world"))

	result := newOrganiser(backend).Process(context.Background(), entryFor(t, backend, "LICENSE"))

	if result.Outcome != models.OutcomeRenamed {
		t.Fatalf("Outcome = %q, want %q (err: %v)", result.Outcome, models.OutcomeRenamed, result.Err)
	}
	if _, err := os.Stat(filepath.Join(dir, helloSum)); err != nil {
		t.Errorf("bare canonical file missing: %v", err)
	}
}

func TestProcessRenamesDotfileToBareFingerprint(t *testing.T) {
	backend, dir := newTestDir(t)
	createFile(t, dir, ".gitignore", []byte("hello world"))

	result := newOrganiser(backend).Process(context.Background(), entryFor(t, backend, ".gitignore"))

	// The leading dot is stem, not extension: the canonical name is the
	// bare fingerprint.
	if result.Outcome != models.OutcomeRenamed {
		t.Fatalf("Outcome = %q, want %q (err: %v)", result.Outcome, models.OutcomeRenamed, result.Err)
	}
	if _, err := os.Stat(filepath.Join(dir, helloSum)); err != nil {
		t.Errorf("bare canonical file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".gitignore")); !os.IsNotExist(err) {
		t.Error("dotfile still exists after rename")
	}
}

func TestProcessUnchangedWhenAlreadyCanonical(t *testing.T) {
	backend, dir := newTestDir(t)
	createFile(t, dir, helloSum+".txt", []byte("hello world"))

	before, err := os.Stat(filepath.Join(dir, helloSum+".txt"))
	if err != nil {
		t.Fatalf("stat error: %v", err)
	}

	result := newOrganiser(backend).Process(context.Background(), entryFor(t, backend, helloSum+".txt"))

	if result.Outcome != models.OutcomeUnchanged {
		t.Fatalf("Outcome = %q, want %q (err: %v)", result.Outcome, models.OutcomeUnchanged, result.Err)
	}

	after, err := os.Stat(filepath.Join(dir, helloSum+".txt"))
	if err != nil {
		t.Fatalf("file missing after no-op: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("no-op should not touch the file's timestamp")
	}
}

func TestProcessRemovesDuplicateAndPreservesTimestamp(t *testing.T) {
	backend, dir := newTestDir(t)
	ctx := context.Background()

	// The canonical name is already occupied by identical content.
	createFile(t, dir, helloSum+".txt", []byte("hello world"))
	createFile(t, dir, "copy.txt", []byte("hello world"))

	dupTime := time.Date(2019, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(dir, "copy.txt"), dupTime, dupTime); err != nil {
		t.Fatalf("failed to set mod time: %v", err)
	}

	result := newOrganiser(backend).Process(ctx, entryFor(t, backend, "copy.txt"))

	if result.Outcome != models.OutcomeDuplicateRemoved {
		t.Fatalf("Outcome = %q, want %q (err: %v)", result.Outcome, models.OutcomeDuplicateRemoved, result.Err)
	}

	if _, err := os.Stat(filepath.Join(dir, "copy.txt")); !os.IsNotExist(err) {
		t.Error("duplicate still exists after removal")
	}

	info, err := os.Stat(filepath.Join(dir, helloSum+".txt"))
	if err != nil {
		t.Fatalf("survivor missing: %v", err)
	}
	if !info.ModTime().Equal(dupTime) {
		t.Errorf("survivor ModTime = %v, want duplicate's %v", info.ModTime(), dupTime)
	}
}

// deleteFailBackend fails every file deletion
type deleteFailBackend struct {
	storage.Backend
}

func (b *deleteFailBackend) Delete(ctx context.Context, name string) error {
	return errors.New("injected delete failure")
}

// chtimesFailBackend fails every timestamp update
type chtimesFailBackend struct {
	storage.Backend
}

func (b *chtimesFailBackend) Chtimes(ctx context.Context, name string, modTime time.Time) error {
	return errors.New("injected chtimes failure")
}

// statFailBackend fails every metadata read
type statFailBackend struct {
	storage.Backend
}

func (b *statFailBackend) Stat(ctx context.Context, name string) (*storage.FileInfo, error) {
	return nil, errors.New("injected stat failure")
}

func TestProcessDeleteFailureLeavesFilesUntouched(t *testing.T) {
	local, dir := newTestDir(t)
	ctx := context.Background()

	createFile(t, dir, helloSum+".txt", []byte("hello world"))
	createFile(t, dir, "copy.txt", []byte("hello world"))

	survivorTime := time.Date(2017, 9, 10, 6, 0, 0, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(dir, helloSum+".txt"), survivorTime, survivorTime); err != nil {
		t.Fatalf("failed to set mod time: %v", err)
	}

	entry := entryFor(t, local, "copy.txt")
	result := newOrganiser(&deleteFailBackend{Backend: local}).Process(ctx, entry)

	if result.Outcome != models.OutcomeErrored {
		t.Fatalf("Outcome = %q, want %q", result.Outcome, models.OutcomeErrored)
	}
	if result.Err == nil || result.Err.Phase != models.PhaseRemoveDuplicate {
		t.Fatalf("Err = %v, want remove_duplicate-phase error", result.Err)
	}

	// The failed deletion must leave the duplicate in place for a retry
	// and the survivor's timestamp untouched.
	if _, err := os.Stat(filepath.Join(dir, "copy.txt")); err != nil {
		t.Errorf("duplicate should remain in place: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, helloSum+".txt"))
	if err != nil {
		t.Fatalf("survivor missing: %v", err)
	}
	if !info.ModTime().Equal(survivorTime) {
		t.Errorf("survivor ModTime = %v, want untouched %v", info.ModTime(), survivorTime)
	}
}

func TestProcessChtimesFailureAfterDuplicateRemoved(t *testing.T) {
	local, dir := newTestDir(t)
	ctx := context.Background()

	createFile(t, dir, helloSum+".txt", []byte("hello world"))
	createFile(t, dir, "copy.txt", []byte("hello world"))

	entry := entryFor(t, local, "copy.txt")
	result := newOrganiser(&chtimesFailBackend{Backend: local}).Process(ctx, entry)

	if result.Outcome != models.OutcomeErrored {
		t.Fatalf("Outcome = %q, want %q", result.Outcome, models.OutcomeErrored)
	}
	if result.Err == nil || result.Err.Phase != models.PhaseSetLastModified {
		t.Fatalf("Err = %v, want set_last_modified-phase error", result.Err)
	}

	// The duplicate is already gone by the time the timestamp update
	// fails; only the survivor remains.
	if _, err := os.Stat(filepath.Join(dir, "copy.txt")); !os.IsNotExist(err) {
		t.Error("duplicate should be removed before the timestamp update")
	}
	if _, err := os.Stat(filepath.Join(dir, helloSum+".txt")); err != nil {
		t.Errorf("survivor missing: %v", err)
	}
}

func TestProcessStatFailureFallsBackToCurrentTime(t *testing.T) {
	local, dir := newTestDir(t)
	ctx := context.Background()

	createFile(t, dir, helloSum+".txt", []byte("hello world"))
	createFile(t, dir, "copy.txt", []byte("hello world"))

	entry := entryFor(t, local, "copy.txt")

	org := newOrganiser(&statFailBackend{Backend: local})
	fallback := time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC)
	org.now = func() time.Time { return fallback }

	result := org.Process(ctx, entry)

	if result.Outcome != models.OutcomeDuplicateRemoved {
		t.Fatalf("Outcome = %q, want %q (err: %v)", result.Outcome, models.OutcomeDuplicateRemoved, result.Err)
	}

	info, err := os.Stat(filepath.Join(dir, helloSum+".txt"))
	if err != nil {
		t.Fatalf("survivor missing: %v", err)
	}
	if !info.ModTime().Equal(fallback) {
		t.Errorf("survivor ModTime = %v, want fallback %v", info.ModTime(), fallback)
	}
}

func TestProcessReadFailure(t *testing.T) {
	backend, _ := newTestDir(t)

	entry := &models.FileEntry{Name: "vanished.txt", AbsolutePath: filepath.Join(backend.Root(), "vanished.txt")}
	result := newOrganiser(backend).Process(context.Background(), entry)

	if result.Outcome != models.OutcomeErrored {
		t.Fatalf("Outcome = %q, want %q", result.Outcome, models.OutcomeErrored)
	}
	if result.Err == nil || result.Err.Phase != models.PhaseRead {
		t.Errorf("Err = %v, want read-phase error", result.Err)
	}
}

func TestProcessDuplicateWithExtensionMismatchStillRenames(t *testing.T) {
	backend, dir := newTestDir(t)

	// Same content but a different extension: canonical names differ, so
	// this is a rename, not a duplicate.
	createFile(t, dir, helloSum+".txt", []byte("hello world"))
	createFile(t, dir, "copy.md", []byte("hello world"))

	result := newOrganiser(backend).Process(context.Background(), entryFor(t, backend, "copy.md"))

	if result.Outcome != models.OutcomeRenamed {
		t.Fatalf("Outcome = %q, want %q (err: %v)", result.Outcome, models.OutcomeRenamed, result.Err)
	}
	if _, err := os.Stat(filepath.Join(dir, helloSum+".md")); err != nil {
		t.Errorf("canonical .md file missing: %v", err)
	}
}
