package models

import (
	"fmt"
	"time"
)

// Outcome represents the terminal state of one file's processing
type Outcome string

const (
	// OutcomeUnchanged indicates the file already carried its canonical name
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeRenamed indicates the file was renamed to its canonical name
	OutcomeRenamed Outcome = "renamed"
	// OutcomeDuplicateRemoved indicates the file was deleted because its
	// canonical name was already occupied by identical content
	OutcomeDuplicateRemoved Outcome = "duplicate_removed"
	// OutcomeErrored indicates processing failed before reaching a terminal state
	OutcomeErrored Outcome = "errored"
)

// Phase identifies which step of the organise algorithm failed
type Phase string

const (
	// PhaseList is the directory listing phase; its failure aborts the run
	PhaseList Phase = "list"
	// PhaseRead is the content or metadata read phase
	PhaseRead Phase = "read"
	// PhaseRemoveDuplicate is the duplicate deletion phase
	PhaseRemoveDuplicate Phase = "remove_duplicate"
	// PhaseRename is the rename-to-canonical phase
	PhaseRename Phase = "rename"
	// PhaseSetLastModified is the survivor timestamp update phase; failure
	// here is not retryable because the duplicate is already gone
	PhaseSetLastModified Phase = "set_last_modified"
)

// OrganiseError is a phase-tagged error for one file (or, for PhaseList,
// for the run as a whole)
type OrganiseError struct {
	Phase Phase
	Path  string
	Err   error
}

func (e *OrganiseError) Error() string {
	var msg string
	switch e.Phase {
	case PhaseList:
		msg = "failed to list files"
	case PhaseRead:
		msg = "failed to read file"
	case PhaseRemoveDuplicate:
		msg = "failed to remove duplicate file"
	case PhaseRename:
		msg = "failed to rename new file"
	case PhaseSetLastModified:
		msg = "failed to set last modified time on file"
	default:
		msg = "failed to organise file"
	}
	return fmt.Sprintf("%s [%v]", msg, e.Err)
}

func (e *OrganiseError) Unwrap() error {
	return e.Err
}

// FileResult records the terminal outcome of one file's processing
type FileResult struct {
	Entry       *FileEntry
	Outcome     Outcome
	Fingerprint string
	// CanonicalPath is the path the file was converged onto (or the
	// surviving path, for removed duplicates)
	CanonicalPath string
	BytesHashed   int64
	Err           *OrganiseError
	Duration      time.Duration
}

// ErrorRecord is a flattened error entry for reporting
type ErrorRecord struct {
	FilePath  string
	Phase     Phase
	Error     string
	Timestamp time.Time
}
