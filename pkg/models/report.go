package models

import (
	"time"
)

// Report represents the results of one organise run
type Report struct {
	// Operation details
	OperationID string
	Directory   string
	Mode        ScanMode

	// Timing
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
	DiscoveryDuration time.Duration

	// Statistics
	Stats Statistics

	// Per-file results, one per discovered candidate
	Results []FileResult

	// Errors encountered
	Errors []ErrorRecord

	// Overall status
	Status Status
}

// Statistics holds organise run metrics
type Statistics struct {
	// FilesDiscovered counts candidates after filtering
	FilesDiscovered int
	// FilesExcluded counts entries the fast-mode filter skipped
	FilesExcluded int

	FilesUnchanged    int
	FilesRenamed      int
	DuplicatesRemoved int
	FilesErrored      int

	// BytesHashed is the total content volume fingerprinted
	BytesHashed int64
}

// Status represents the overall result
type Status string

const (
	// StatusSuccess indicates every file reached a terminal outcome
	StatusSuccess Status = "success"
	// StatusPartial indicates some files failed but the run completed
	StatusPartial Status = "partial"
	// StatusFailed indicates the directory could not be listed
	StatusFailed Status = "failed"
)

// ExitCode returns the appropriate process exit code for the status
func (s Status) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	default:
		return 2
	}
}
