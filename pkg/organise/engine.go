package organise

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/sdejongh/hashtidy/pkg/fingerprint"
	"github.com/sdejongh/hashtidy/pkg/logging"
	"github.com/sdejongh/hashtidy/pkg/models"
	"github.com/sdejongh/hashtidy/pkg/output"
	"github.com/sdejongh/hashtidy/pkg/storage"
)

// Engine orchestrates one organise run: discovery to completion first,
// then parallel per-file processing, then single-threaded aggregation.
type Engine struct {
	backend   storage.Backend
	hasher    *fingerprint.Hasher
	formatter output.Formatter
	logger    logging.Logger
	operation *models.OrganiseOperation
	out       io.Writer
}

// NewEngine creates a new organise engine
func NewEngine(
	backend storage.Backend,
	hasher *fingerprint.Hasher,
	formatter output.Formatter,
	logger logging.Logger,
	operation *models.OrganiseOperation,
) *Engine {
	return &Engine{
		backend:   backend,
		hasher:    hasher,
		formatter: formatter,
		logger:    logger,
		operation: operation,
	}
}

// SetOutput overrides where the formatter writes. The default, nil, lets
// the formatter fall back to stdout.
func (e *Engine) SetOutput(w io.Writer) {
	e.out = w
}

// Run executes the organise operation. The returned error is non-nil only
// when the directory listing itself fails; per-file failures are recorded
// in the report and reflected in its status instead.
func (e *Engine) Run(ctx context.Context) (*models.Report, error) {
	report := &models.Report{
		OperationID: e.operation.ID,
		Directory:   e.backend.Root(),
		Mode:        e.operation.Mode,
		StartTime:   time.Now(),
		Status:      models.StatusSuccess,
	}

	e.logger.Info(ctx, "starting organise run", logging.Fields{
		"operation_id": e.operation.ID,
		"directory":    report.Directory,
		"mode":         string(e.operation.Mode),
		"max_workers":  e.operation.MaxWorkers,
	})

	e.formatter.Start(e.out, report.Directory)

	discoveryStart := time.Now()
	scanner := NewScanner(e.backend, e.logger)
	candidates, excluded, err := scanner.Discover(ctx, e.operation.Mode)
	report.DiscoveryDuration = time.Since(discoveryStart)

	if err != nil {
		report.Status = models.StatusFailed
		report.EndTime = time.Now()
		report.Duration = report.EndTime.Sub(report.StartTime)

		var oerr *models.OrganiseError
		if errors.As(err, &oerr) {
			report.Errors = append(report.Errors, models.ErrorRecord{
				FilePath:  oerr.Path,
				Phase:     oerr.Phase,
				Error:     oerr.Error(),
				Timestamp: time.Now(),
			})
		}

		e.logger.Error(ctx, "discovery failed", err, logging.Fields{
			"directory": report.Directory,
		})
		e.formatter.Error(err)
		return report, err
	}

	report.Stats.FilesDiscovered = len(candidates)
	report.Stats.FilesExcluded = excluded

	var totalBytes int64
	for i := range candidates {
		totalBytes += candidates[i].Size
	}

	e.logger.Info(ctx, "discovery complete", logging.Fields{
		"files":    len(candidates),
		"excluded": excluded,
		"elapsed":  report.DiscoveryDuration.String(),
	})
	e.formatter.Discovered(len(candidates), totalBytes, excluded, report.DiscoveryDuration)

	organiser := NewOrganiser(e.backend, e.hasher, e.logger)
	pool := NewPool(e.operation.MaxWorkers)

	// The sequence number exists only for display; report aggregation
	// happens after the pool drains.
	var seq atomic.Int64
	results := pool.Run(ctx, organiser, candidates, func(result *models.FileResult) {
		update := output.ProgressUpdate{
			FilePath:    result.Entry.Name,
			Outcome:     result.Outcome,
			CurrentFile: int(seq.Add(1)),
			TotalFiles:  len(candidates),
		}
		if result.Err != nil {
			update.Type = output.EventFileError
			update.Error = result.Err
		} else {
			update.Type = output.EventFileComplete
		}
		e.formatter.Progress(update)
	})

	report.Results = results
	for i := range results {
		result := &results[i]
		report.Stats.BytesHashed += result.BytesHashed

		switch result.Outcome {
		case models.OutcomeUnchanged:
			report.Stats.FilesUnchanged++
		case models.OutcomeRenamed:
			report.Stats.FilesRenamed++
		case models.OutcomeDuplicateRemoved:
			report.Stats.DuplicatesRemoved++
		case models.OutcomeErrored:
			report.Stats.FilesErrored++
			report.Errors = append(report.Errors, models.ErrorRecord{
				FilePath:  result.Entry.AbsolutePath,
				Phase:     result.Err.Phase,
				Error:     result.Err.Error(),
				Timestamp: time.Now(),
			})
		}
	}

	if report.Stats.FilesErrored > 0 {
		report.Status = models.StatusPartial
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	e.logger.Info(ctx, "organise run complete", logging.Fields{
		"operation_id": e.operation.ID,
		"status":       string(report.Status),
		"unchanged":    report.Stats.FilesUnchanged,
		"renamed":      report.Stats.FilesRenamed,
		"duplicates":   report.Stats.DuplicatesRemoved,
		"errored":      report.Stats.FilesErrored,
		"duration":     report.Duration.String(),
	})
	e.formatter.Complete(report)

	return report, nil
}
